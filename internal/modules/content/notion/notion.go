// Package notion adapts a Notion database view into the post records and
// record maps the rest of the pipeline consumes. It speaks the same v3
// endpoints the site's previous front end used.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/morethan-log/core/internal/config"
	"github.com/morethan-log/core/internal/models"
	"go.uber.org/zap"
)

const (
	defaultAPIBase = "https://www.notion.so"
	chunkLimit     = 100
	maxChunks      = 50
)

// Source yields raw post records and nested block trees from the CMS.
type Source interface {
	// ListPosts fails soft: configuration or fetch errors are logged and
	// yield an empty list, so one unreachable database never blanks the site.
	ListPosts(ctx context.Context) []models.PostRecord
	// GetRecordMap fetches the block tree for one page. Failures propagate.
	GetRecordMap(ctx context.Context, pageID string) (*models.RecordMap, error)
}

// Client is the HTTP implementation of Source.
type Client struct {
	base   string
	token  string
	pageID string
	http   *http.Client
	logger *zap.Logger
}

func NewClient(cfg config.NotionConfig, logger *zap.Logger) *Client {
	base := strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")
	if base == "" {
		base = defaultAPIBase
	}
	return &Client{
		base:   base,
		token:  strings.TrimSpace(cfg.Token),
		pageID: strings.TrimSpace(cfg.PageID),
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// ListPosts loads the configured database view and maps its pages to post
// records, newest first.
func (c *Client) ListPosts(ctx context.Context) []models.PostRecord {
	if c.pageID == "" {
		c.logger.Error("notion: page id is missing, nothing to fetch")
		return nil
	}

	id := toUUID(c.pageID)
	page, err := c.loadPage(ctx, id)
	if err != nil {
		c.logger.Error("notion: failed to load database",
			zap.String("page_id", id), zap.Error(err))
		return nil
	}

	root := page.blocks[id].Value
	if root == nil || (root.Type != "collection_view_page" && root.Type != "collection_view") {
		c.logger.Error("notion: the configured page id is not a database view",
			zap.String("page_id", id))
		return nil
	}

	schema := page.schema()
	posts := make([]models.PostRecord, 0, len(page.blocks))
	for blockID, env := range page.blocks {
		block := env.Value
		if block == nil || block.Type != models.BlockPage || block.ParentTable != "collection" {
			continue
		}
		record := buildPostRecord(blockID, block, schema)
		posts = append(posts, record)
	}

	sortByDateDesc(posts)
	c.logger.Info("notion: loaded entries from database",
		zap.Int("count", len(posts)), zap.String("page_id", id))
	return posts
}

// GetRecordMap fetches a page's full block tree.
func (c *Client) GetRecordMap(ctx context.Context, pageID string) (*models.RecordMap, error) {
	page, err := c.loadPage(ctx, toUUID(pageID))
	if err != nil {
		return nil, fmt.Errorf("notion: load record map for %s: %w", pageID, err)
	}
	return &models.RecordMap{Block: page.blocks}, nil
}

// pageChunks accumulates paged loadPageChunk responses.
type pageChunks struct {
	blocks      map[string]models.BlockEnvelope
	collections map[string]collectionValue
}

func (p *pageChunks) schema() map[string]schemaEntry {
	for _, col := range p.collections {
		if len(col.Schema) > 0 {
			return col.Schema
		}
	}
	return nil
}

type chunkResponse struct {
	RecordMap struct {
		Block      map[string]models.BlockEnvelope `json:"block"`
		Collection map[string]collectionEnvelope   `json:"collection"`
	} `json:"recordMap"`
	Cursor struct {
		Stack []json.RawMessage `json:"stack"`
	} `json:"cursor"`
}

func (c *Client) loadPage(ctx context.Context, pageID string) (*pageChunks, error) {
	page := &pageChunks{
		blocks:      make(map[string]models.BlockEnvelope),
		collections: make(map[string]collectionValue),
	}

	stack := []json.RawMessage{}
	for chunk := 0; chunk < maxChunks; chunk++ {
		body := map[string]interface{}{
			"pageId":          pageID,
			"limit":           chunkLimit,
			"chunkNumber":     chunk,
			"verticalColumns": false,
			"cursor":          map[string]interface{}{"stack": stack},
		}
		resp, err := c.post(ctx, "/api/v3/loadPageChunk", body)
		if err != nil {
			return nil, err
		}

		var parsed chunkResponse
		if err := json.Unmarshal(resp, &parsed); err != nil {
			return nil, fmt.Errorf("decode loadPageChunk response: %w", err)
		}
		for id, env := range parsed.RecordMap.Block {
			if _, seen := page.blocks[id]; !seen {
				page.blocks[id] = env
			}
		}
		for id, env := range parsed.RecordMap.Collection {
			if value, ok := env.value(); ok {
				page.collections[id] = value
			}
		}

		stack = parsed.Cursor.Stack
		if len(stack) == 0 {
			break
		}
	}
	return page, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Cookie", "token_v2="+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("notion %s: status=%d body=%s", path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return raw, nil
}

// toUUID normalizes a compact Notion id into its dashed form.
func toUUID(id string) string {
	clean := strings.ReplaceAll(strings.TrimSpace(id), "-", "")
	if len(clean) != 32 {
		return strings.TrimSpace(id)
	}
	return strings.Join([]string{
		clean[0:8], clean[8:12], clean[12:16], clean[16:20], clean[20:32],
	}, "-")
}

func sortByDateDesc(posts []models.PostRecord) {
	sort.SliceStable(posts, func(i, j int) bool {
		return postTime(posts[i]).After(postTime(posts[j]))
	})
}

func postTime(p models.PostRecord) time.Time {
	if p.Date != nil && p.Date.StartDate != "" {
		if t, err := time.Parse("2006-01-02", p.Date.StartDate); err == nil {
			return t
		}
	}
	if p.CreatedTime != "" {
		if t, err := time.Parse(time.RFC3339, p.CreatedTime); err == nil {
			return t
		}
	}
	return time.Time{}
}
