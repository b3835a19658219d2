package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"
)

const (
	BackendVertex = "vertex"
	BackendGemini = "gemini"
	BackendMock   = "mock"
)

var (
	// ErrEmptyResponse is returned when the model produced no text.
	ErrEmptyResponse = errors.New("model returned an empty response")
	// ErrInvalidVideoURI is returned for video locations that are not gs:// URIs.
	ErrInvalidVideoURI = errors.New("video URI must be a gs:// location")
)

// Config selects the model backend and the models used for each call.
type Config struct {
	Backend    string
	Project    string
	Location   string
	APIKey     string
	VideoModel string
	TextModel  string
}

// contentGenerator is the subset of *genai.Models the client needs.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client extracts tasks from videos and proposes automation options using
// Gemini models served by Vertex AI or the Gemini API.
type Client struct {
	models     contentGenerator
	videoModel string
	textModel  string
	logger     *slog.Logger
}

// NewClient connects to the configured backend.
func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cc := &genai.ClientConfig{}
	switch cfg.Backend {
	case BackendVertex, "":
		if cfg.Project == "" {
			return nil, fmt.Errorf("vertex backend requires a Google Cloud project")
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	case BackendGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini backend requires an API key")
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	default:
		return nil, fmt.Errorf("unknown genai backend %q", cfg.Backend)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	logger.Info("genai client ready", "backend", cfg.Backend, "project", cfg.Project,
		"location", cfg.Location, "video_model", cfg.VideoModel, "text_model", cfg.TextModel)
	return newClient(client.Models, cfg, logger), nil
}

func newClient(models contentGenerator, cfg Config, logger *slog.Logger) *Client {
	return &Client{
		models:     models,
		videoModel: cfg.VideoModel,
		textModel:  cfg.TextModel,
		logger:     logger,
	}
}

func (c *Client) generate(ctx context.Context, model string, parts []*genai.Part, config *genai.GenerateContentConfig) (string, error) {
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := c.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content with %s: %w", model, err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
