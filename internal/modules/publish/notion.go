// Package publish mirrors generated translation drafts into a Notion page so
// editors can review them where the source content lives.
package publish

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jomei/notionapi"
	"github.com/morethan-log/core/internal/config"
	"github.com/morethan-log/core/internal/models"
	"go.uber.org/zap"
)

const (
	// Notion rejects rich text runs above 2000 characters; stay under it.
	maxTextLength = 1900
	// Notion caps children per create/append request.
	maxChildrenPerRequest = 100
)

// NotionPublisher writes one draft page per translated post under a parent
// page, replacing the previous draft for the same slug on regeneration.
type NotionPublisher struct {
	client *notionapi.Client
	parent notionapi.PageID
	logger *zap.Logger
}

func NewNotionPublisher(cfg config.PublishConfig, logger *zap.Logger) *NotionPublisher {
	return &NotionPublisher{
		client: notionapi.NewClient(notionapi.Token(cfg.Token)),
		parent: notionapi.PageID(cfg.ParentPageID),
		logger: logger,
	}
}

func (p *NotionPublisher) Publish(ctx context.Context, record models.TranslationRecord) error {
	title := draftTitle(record)
	children := draftChildren(record)

	existing, err := p.findDraft(ctx, title)
	if err != nil {
		return err
	}
	if existing != "" {
		return p.replaceDraft(ctx, existing, children)
	}
	return p.createDraft(ctx, title, children)
}

// findDraft locates an earlier draft page with the same title under the
// configured parent, or "" when none exists.
func (p *NotionPublisher) findDraft(ctx context.Context, title string) (notionapi.PageID, error) {
	res, err := p.client.Search.Do(ctx, &notionapi.SearchRequest{
		Query: title,
		Filter: notionapi.SearchFilter{
			Value:    "page",
			Property: "object",
		},
	})
	if err != nil {
		return "", fmt.Errorf("search draft pages: %w", err)
	}
	for _, obj := range res.Results {
		page, ok := obj.(*notionapi.Page)
		if !ok {
			continue
		}
		if page.Parent.PageID != p.parent {
			continue
		}
		if pageTitle(page) == title {
			return notionapi.PageID(page.ID), nil
		}
	}
	return "", nil
}

func (p *NotionPublisher) createDraft(ctx context.Context, title string, children []notionapi.Block) error {
	head, tail := splitChildren(children)
	page, err := p.client.Page.Create(ctx, &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:   notionapi.ParentTypePageID,
			PageID: p.parent,
		},
		Properties: notionapi.Properties{
			"title": notionapi.TitleProperty{
				Title: richText(title),
			},
		},
		Children: head,
	})
	if err != nil {
		return fmt.Errorf("create draft page: %w", err)
	}
	return p.appendChildren(ctx, notionapi.BlockID(page.ID), tail)
}

// replaceDraft clears a stale draft's children and appends the fresh ones.
func (p *NotionPublisher) replaceDraft(ctx context.Context, pageID notionapi.PageID, children []notionapi.Block) error {
	blockID := notionapi.BlockID(pageID)
	cursor := notionapi.Cursor("")
	for {
		res, err := p.client.Block.GetChildren(ctx, blockID, &notionapi.Pagination{
			StartCursor: cursor,
			PageSize:    maxChildrenPerRequest,
		})
		if err != nil {
			return fmt.Errorf("list draft children: %w", err)
		}
		for _, child := range res.Results {
			if _, err := p.client.Block.Delete(ctx, child.GetID()); err != nil {
				p.logger.Warn("deleting stale draft block failed",
					zap.String("block", child.GetID().String()), zap.Error(err))
			}
		}
		if !res.HasMore {
			break
		}
		cursor = notionapi.Cursor(res.NextCursor)
	}
	return p.appendChildren(ctx, blockID, children)
}

func (p *NotionPublisher) appendChildren(ctx context.Context, blockID notionapi.BlockID, children []notionapi.Block) error {
	for start := 0; start < len(children); start += maxChildrenPerRequest {
		end := start + maxChildrenPerRequest
		if end > len(children) {
			end = len(children)
		}
		_, err := p.client.Block.AppendChildren(ctx, blockID, &notionapi.AppendBlockChildrenRequest{
			Children: children[start:end],
		})
		if err != nil {
			return fmt.Errorf("append draft children: %w", err)
		}
	}
	return nil
}

func draftTitle(record models.TranslationRecord) string {
	title := strings.TrimSpace(record.Translation.Title)
	if title == "" {
		title = record.Slug
	}
	return "[EN] " + title
}

// draftChildren renders the translated tree as flat paragraphs, headed by a
// callout carrying the generation metadata.
func draftChildren(record models.TranslationRecord) []notionapi.Block {
	meta := fmt.Sprintf("AI translation draft · slug: %s · source: %s · model: %s · generated: %s",
		record.Slug,
		record.SourcePostID,
		record.Model,
		record.GeneratedAt.Format("2006-01-02 15:04 MST"))
	emoji := notionapi.Emoji("🤖")

	blocks := []notionapi.Block{
		&notionapi.CalloutBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeCallout,
			},
			Callout: notionapi.Callout{
				RichText: richText(meta),
				Icon:     &notionapi.Icon{Type: "emoji", Emoji: &emoji},
			},
		},
	}

	for _, text := range treeParagraphs(record.RecordMap) {
		blocks = append(blocks, &notionapi.ParagraphBlock{
			BasicBlock: notionapi.BasicBlock{
				Object: notionapi.ObjectTypeBlock,
				Type:   notionapi.BlockTypeParagraph,
			},
			Paragraph: notionapi.Paragraph{
				RichText: richText(text),
			},
		})
	}
	return blocks
}

// treeParagraphs flattens the prose blocks of a record map into plain text
// lines, sorted by block id for a stable draft layout.
func treeParagraphs(tree *models.RecordMap) []string {
	if tree == nil {
		return nil
	}
	ids := make([]string, 0, len(tree.Block))
	for id := range tree.Block {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var out []string
	for _, id := range ids {
		block := tree.Block[id].Value
		if block == nil || block.Type.Class() != models.TextProse {
			continue
		}
		var line strings.Builder
		for _, span := range block.Properties["title"] {
			line.WriteString(span.Text())
		}
		text := strings.TrimSpace(line.String())
		if text == "" {
			continue
		}
		out = append(out, truncate(text, maxTextLength))
	}
	return out
}

func richText(text string) []notionapi.RichText {
	return []notionapi.RichText{
		{Text: &notionapi.Text{Content: truncate(text, maxTextLength)}},
	}
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max]) + "…"
}

func pageTitle(page *notionapi.Page) string {
	prop, ok := page.Properties["title"]
	if !ok {
		return ""
	}
	title, ok := prop.(*notionapi.TitleProperty)
	if !ok {
		return ""
	}
	var out strings.Builder
	for _, rt := range title.Title {
		out.WriteString(rt.PlainText)
	}
	return out.String()
}

func splitChildren(children []notionapi.Block) (head, tail []notionapi.Block) {
	if len(children) <= maxChildrenPerRequest {
		return children, nil
	}
	return children[:maxChildrenPerRequest], children[maxChildrenPerRequest:]
}
