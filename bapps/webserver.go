package bapps

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/treeconf/treeconf/configs"
	"github.com/treeconf/treeconf/framework"
	"github.com/treeconf/treeconf/states"
	"github.com/treeconf/treeconf/states/autocomplete"
	"github.com/treeconf/treeconf/version"
)

// WebServerApp serves one token tree over http.
type WebServerApp struct {
	port   int
	config *configs.Config
	logger *zap.Logger

	served      atomic.Int64
	completed   atomic.Int64
	parseFailed atomic.Int64
	runFailed   atomic.Int64
}

// ParseRequest is the body of POST /parse.
type ParseRequest struct {
	Args []string `json:"args"`
}

type usageQuery struct {
	Help bool `form:"help"`
}

type suggestQuery struct {
	Input string `form:"input"`
}

// rooted is implemented by states processing a single token tree.
type rooted interface {
	Root() *framework.Token
}

// NewWebServerApp returns the rest server app listening on port.
func NewWebServerApp(port int, config *configs.Config, opts ...AppOption) *WebServerApp {
	opt := newAppOption(opts)
	return &WebServerApp{
		port:   port,
		config: config,
		logger: opt.logger,
	}
}

func (app *WebServerApp) Run(start states.State) {
	s, ok := start.(rooted)
	if !ok {
		app.logger.Error("state does not provide a command tree", zap.String("label", start.Label()))
		return
	}
	r := app.Router(s.Root())
	if err := r.Run(fmt.Sprintf(":%d", app.port)); err != nil {
		app.logger.Error("web server stopped", zap.Error(err))
	}
}

// Router returns the gin engine serving root. The tree is shared by all
// requests, every parse owns its captures.
func (app *WebServerApp) Router(root *framework.Token) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), app.logRequest)

	r.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, version.Get())
	})

	r.GET("/usage", func(c *gin.Context) {
		q := &usageQuery{}
		if err := c.ShouldBindQuery(q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"usage": root.Usage(q.Help)})
	})

	r.GET("/completions", func(c *gin.Context) {
		q := &usageQuery{}
		if err := c.ShouldBindQuery(q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"completions": root.Completions(q.Help)})
	})

	r.GET("/suggest", func(c *gin.Context) {
		q := &suggestQuery{}
		if err := c.ShouldBindQuery(q); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"suggestions": autocomplete.SuggestInputTokens(q.Input, root)})
	})

	r.POST("/parse", func(c *gin.Context) {
		req := &ParseRequest{}
		if err := c.ShouldBindJSON(req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := root.Parse(c.Request.Context(), req.Args)
		app.writeOutcome(c, res, err)
	})

	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"served":      app.served.Load(),
			"completed":   app.completed.Load(),
			"parseFailed": app.parseFailed.Load(),
			"runFailed":   app.runFailed.Load(),
		})
	})

	return r
}

func (app *WebServerApp) writeOutcome(c *gin.Context, res framework.Result, err error) {
	switch framework.Classify(err) {
	case framework.OutcomeCompleted:
		app.completed.Inc()
		c.JSON(http.StatusOK, res.Entities())
	case framework.OutcomeParseFailed:
		app.parseFailed.Inc()
		var pe *framework.ParseError
		errors.As(err, &pe)
		body := gin.H{
			"code":    framework.FailureCode,
			"message": pe.Message,
			"history": pe.History,
		}
		if pe.Token != nil {
			body["token"] = pe.Token.Name()
		}
		if pe.Root != nil {
			body["usage"] = pe.Root.Usage(false)
		}
		c.JSON(http.StatusBadRequest, body)
	default:
		app.runFailed.Inc()
		body := gin.H{
			"code":    framework.FailureCode,
			"message": res.Message,
			"error":   err.Error(),
		}
		var re *framework.RunError
		if errors.As(err, &re) && re.Token != nil {
			body["token"] = re.Token.Name()
		}
		c.JSON(http.StatusUnprocessableEntity, body)
	}
}

// requestIDHeader carries the id a caller set, or the one generated for it.
const requestIDHeader = "X-Request-Id"

// logRequest counts and logs every served request.
func (app *WebServerApp) logRequest(c *gin.Context) {
	start := time.Now()
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Header(requestIDHeader, id)
	c.Next()
	app.served.Inc()
	app.logger.Info("request served",
		zap.String("requestID", id),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", c.Writer.Status()),
		zap.Duration("latency", time.Since(start)),
	)
}
