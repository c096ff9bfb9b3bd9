// Package scrapertest provides an in-process fake of the scraper backend
// for tests. It records submissions and counts calls per endpoint.
package scrapertest

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Server is a fake scraper backend listening on a loopback address
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	submissions []string
	scrapeCalls int
	dataCalls   int

	scrapeCode  int
	scrapeBody  interface{}
	scrapeRaw   string
	scrapeDelay time.Duration

	dataCode int
	dataBody interface{}
	dataRaw  string
}

// NewServer starts a fake backend that answers {"status":"success"} to
// scrapes and {} to data polls until configured otherwise
func NewServer() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		scrapeCode: http.StatusOK,
		scrapeBody: gin.H{"status": "success"},
		dataCode:   http.StatusOK,
		dataBody:   gin.H{},
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.POST("/scrape", s.handleScrape)
	router.GET("/scraped-data", s.handleScrapedData)

	s.Server = httptest.NewServer(router)
	return s
}

func (s *Server) handleScrape(c *gin.Context) {
	url := c.PostForm("url")

	s.mu.Lock()
	s.scrapeCalls++
	s.submissions = append(s.submissions, url)
	code, body, raw, delay := s.scrapeCode, s.scrapeBody, s.scrapeRaw, s.scrapeDelay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-c.Request.Context().Done():
			return
		}
	}

	if raw != "" {
		c.String(code, raw)
		return
	}
	c.JSON(code, body)
}

func (s *Server) handleScrapedData(c *gin.Context) {
	s.mu.Lock()
	s.dataCalls++
	code, body, raw := s.dataCode, s.dataBody, s.dataRaw
	s.mu.Unlock()

	if raw != "" {
		c.String(code, raw)
		return
	}
	c.JSON(code, body)
}

// SetScrapeResult makes POST /scrape answer with the given status and message
func (s *Server) SetScrapeResult(status, message string) {
	body := gin.H{"status": status}
	if message != "" {
		body["message"] = message
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrapeCode = http.StatusOK
	s.scrapeBody = body
	s.scrapeRaw = ""
}

// SetScrapeRaw makes POST /scrape answer with a verbatim body
func (s *Server) SetScrapeRaw(code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrapeCode = code
	s.scrapeRaw = body
}

// SetScrapeDelay holds every scrape response for d
func (s *Server) SetScrapeDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrapeDelay = d
}

// SetData makes GET /scraped-data answer {"data": data}.
// An empty string answers {} instead.
func (s *Server) SetData(data string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataCode = http.StatusOK
	s.dataRaw = ""
	if data == "" {
		s.dataBody = gin.H{}
		return
	}
	s.dataBody = gin.H{"data": data}
}

// SetDataRaw makes GET /scraped-data answer with a verbatim body
func (s *Server) SetDataRaw(code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dataCode = code
	s.dataRaw = body
}

// Submissions returns the url field of every scrape request received
func (s *Server) Submissions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.submissions))
	copy(out, s.submissions)
	return out
}

// ScrapeCalls returns the number of POST /scrape requests received
func (s *Server) ScrapeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrapeCalls
}

// DataCalls returns the number of GET /scraped-data requests received
func (s *Server) DataCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dataCalls
}
