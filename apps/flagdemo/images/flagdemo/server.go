package main

import (
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	slogGin "github.com/samber/slog-gin"
)

type user struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

var mockUsers = []user{
	{ID: 1, Name: "Alice Johnson", Email: "alice@example.com", Role: "admin"},
	{ID: 2, Name: "Bob Smith", Email: "bob@example.com", Role: "user"},
	{ID: 3, Name: "Carol Davis", Email: "carol@example.com", Role: "user"},
	{ID: 4, Name: "David Wilson", Email: "david@example.com", Role: "moderator"},
	{ID: 5, Name: "Eve Brown", Email: "eve@example.com", Role: "user"},
}

const homePage = `<!DOCTYPE html>
<html>
<head>
    <title>AppConfig Flag Demo</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        .config { background: #f0f0f0; padding: 20px; border-radius: 5px; margin: 20px 0; }
        .feature-enabled { color: green; }
        .feature-disabled { color: red; }
        .endpoint { background: #e8f4f8; padding: 10px; margin: 10px 0; border-radius: 3px; }
    </style>
</head>
<body>
    <h1>AppConfig Flag Demo Application</h1>

    <h2>Current Configuration</h2>
    <div class="config"><pre>{{ .ConfigJSON }}</pre></div>

    <h2>User Listing Feature Status</h2>
    {{ if .FeatureXEnabled }}
    <p class="feature-enabled">Feature is currently <strong>ENABLED</strong></p>
    {{ else }}
    <p class="feature-disabled">Feature is currently <strong>DISABLED</strong></p>
    {{ end }}

    <h2>Available Endpoints</h2>
    <div class="endpoint"><strong>GET /</strong> - This home page</div>
    <div class="endpoint"><strong>GET /health</strong> - Health check endpoint</div>
    <div class="endpoint"><strong>GET /config</strong> - Current configuration (JSON)</div>
    <div class="endpoint"><strong>GET /users</strong> - List users (controlled by the featureXEnabled flag)</div>

    <h2>Instructions</h2>
    <ol>
        <li>Visit <a href="/users">/users</a> to see the current behavior</li>
        <li>Publish a new flag document (infractl update-config --feature-x)</li>
        <li>Wait up to 30 seconds for the configuration to refresh</li>
        <li>Visit <a href="/users">/users</a> again to see the change</li>
    </ol>
</body>
</html>
`

func setupRoutes(poller *Poller) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("home").Parse(homePage)))

	httpLogger := slog.Default().WithGroup("http")
	r.Use(slogGin.NewWithConfig(httpLogger, slogGin.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
	}))
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	r.GET("/", homeHandler(poller))
	r.GET("/health", healthHandler(poller))
	r.GET("/config", configHandler(poller))
	r.GET("/users", usersHandler(poller))

	return r
}

func homeHandler(poller *Poller) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc := poller.Current()
		c.HTML(http.StatusOK, "home", gin.H{
			"ConfigJSON":      doc.MustMarshalIndent(),
			"FeatureXEnabled": doc.FeatureXEnabled,
		})
	}
}

func healthHandler(poller *Poller) gin.HandlerFunc {
	return func(c *gin.Context) {
		fetchedAt, _ := poller.Status()
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
			"configLoaded": !fetchedAt.IsZero(),
		})
	}
}

func configHandler(poller *Poller) gin.HandlerFunc {
	return func(c *gin.Context) {
		fetchedAt, lastErr := poller.Status()

		body := gin.H{
			"config": poller.Current(),
			"source": "appconfig-agent",
		}
		if !fetchedAt.IsZero() {
			body["fetchedAt"] = fetchedAt.UTC().Format(time.RFC3339)
		}
		if lastErr != nil {
			body["lastError"] = lastErr.Error()
		}
		c.JSON(http.StatusOK, body)
	}
}

func usersHandler(poller *Poller) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc := poller.Current()
		if !doc.FeatureXEnabled {
			c.JSON(http.StatusForbidden, gin.H{
				"error":            "user listing feature is currently disabled",
				"message":          "this feature is controlled by the featureXEnabled flag",
				"currentFlagValue": doc.FeatureXEnabled,
			})
			return
		}

		// maxUsers is carried in the document but does not gate the
		// response, the full mock list always comes back.
		c.JSON(http.StatusOK, gin.H{
			"users":          mockUsers,
			"totalCount":     len(mockUsers),
			"featureEnabled": true,
			"timestamp":      time.Now().UTC().Format(time.RFC3339),
		})
	}
}
