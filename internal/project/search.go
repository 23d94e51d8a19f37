package project

import (
	"encoding/json"
	"log"

	"github.com/meilisearch/meilisearch-go"
)

const projectsIndex = "projects"

// SearchIndex wraps the meilisearch projects index. Indexing happens off the
// request path; a failed write only costs search freshness, never the row.
type SearchIndex struct {
	client meilisearch.ServiceManager
}

type projectDocument struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Summary     *string  `json:"summary"`
	Description *string  `json:"description"`
	IconURL     *string  `json:"iconUrl"`
	Tags        []string `json:"tags"`
	Downloads   int64    `json:"downloads"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	UserID      string   `json:"userId"`
}

func toDocument(p *Project) projectDocument {
	return projectDocument{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Summary:     p.Summary,
		Description: p.Description,
		IconURL:     p.IconURL,
		Tags:        p.Tags,
		Downloads:   p.Downloads,
		Type:        string(p.Type),
		Status:      string(p.Status),
		UserID:      p.UserID,
	}
}

func NewSearchIndex(hostURL, masterKey string) *SearchIndex {
	s := &SearchIndex{
		client: meilisearch.New(hostURL, meilisearch.WithAPIKey(masterKey)),
	}
	s.ensureIndex()
	return s
}

func (s *SearchIndex) ensureIndex() {
	if _, err := s.client.GetIndex(projectsIndex); err != nil {
		if _, err := s.client.CreateIndex(&meilisearch.IndexConfig{
			Uid:        projectsIndex,
			PrimaryKey: "id",
		}); err != nil {
			log.Printf("search: failed to create %s index: %v", projectsIndex, err)
			return
		}
	}

	_, err := s.client.Index(projectsIndex).UpdateSettings(&meilisearch.Settings{
		SearchableAttributes: []string{"name", "slug", "summary", "description"},
		FilterableAttributes: []string{"type", "tags", "downloads"},
	})
	if err != nil {
		log.Printf("search: failed to update %s index settings: %v", projectsIndex, err)
	}
}

func (s *SearchIndex) IndexProject(p *Project) error {
	doc := toDocument(p)
	_, err := s.client.Index(projectsIndex).AddDocuments([]projectDocument{doc}, "id")
	return err
}

func (s *SearchIndex) UpdateProject(p *Project) error {
	doc := toDocument(p)
	_, err := s.client.Index(projectsIndex).UpdateDocuments([]projectDocument{doc}, "id")
	return err
}

func (s *SearchIndex) DeleteProject(projectID string) error {
	_, err := s.client.Index(projectsIndex).DeleteDocument(projectID)
	return err
}

// Find queries the index filtered by project type.
func (s *SearchIndex) Find(query, projectType string, limit, offset int64) ([]Project, int64, error) {
	res, err := s.client.Index(projectsIndex).Search(query, &meilisearch.SearchRequest{
		Limit:  limit,
		Offset: offset,
		Filter: "type = '" + projectType + "'",
	})
	if err != nil {
		return nil, 0, err
	}

	projects := make([]Project, 0, len(res.Hits))
	for _, hit := range res.Hits {
		raw, err := json.Marshal(hit)
		if err != nil {
			return nil, 0, err
		}

		var doc projectDocument
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, 0, err
		}

		projects = append(projects, Project{
			ID:          doc.ID,
			Name:        doc.Name,
			Slug:        doc.Slug,
			Summary:     doc.Summary,
			Description: doc.Description,
			IconURL:     doc.IconURL,
			Tags:        doc.Tags,
			Downloads:   doc.Downloads,
			Type:        Type(doc.Type),
			Status:      Status(doc.Status),
			UserID:      doc.UserID,
		})
	}

	return projects, res.EstimatedTotalHits, nil
}

func (s *SearchIndex) Health() error {
	_, err := s.client.Health()
	return err
}
