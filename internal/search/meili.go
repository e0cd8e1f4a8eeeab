package search

import (
	"fmt"

	"module-owner-service/internal/domain"

	meili "github.com/meilisearch/meilisearch-go"
	"github.com/sirupsen/logrus"
)

const changesIndex = "module_changes"

// ChangeRecord документ изменения в поисковом индексе.
type ChangeRecord struct {
	ID      string `json:"id"`
	Project string `json:"project"`
	OwnerID string `json:"ownerId"`
	Subject string `json:"subject"`
	Status  string `json:"status"`
}

// Meili обновляет поисковый индекс изменений через Meilisearch.
// Недоступность поискового бэкенда не фатальна: обновление индекса
// деградирует до логируемой ошибки.
type Meili struct {
	client meili.ServiceManager
	log    *logrus.Logger
}

// NewMeili создает клиент Meilisearch и настраивает индекс изменений.
func NewMeili(url, apiKey string, log *logrus.Logger) *Meili {
	client := meili.New(url, meili.WithAPIKey(apiKey))

	m := &Meili{client: client, log: log}

	if _, err := client.Health(); err != nil {
		log.WithError(err).Warnf("Meilisearch unavailable at %s", url)
		return m
	}

	if _, err := client.CreateIndex(&meili.IndexConfig{
		Uid:        changesIndex,
		PrimaryKey: "id",
	}); err != nil {
		log.WithError(err).Warnf("Create index %s (may already exist)", changesIndex)
	}

	return m
}

// Refresh обновляет документ изменения в поисковом индексе.
func (m *Meili) Refresh(change *domain.Change) error {
	doc := ChangeRecord{
		ID:      change.ID,
		Project: change.Project,
		OwnerID: change.OwnerID,
		Subject: change.Subject,
		Status:  change.Status,
	}
	if _, err := m.client.Index(changesIndex).AddDocuments([]ChangeRecord{doc}, nil); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndexing, err)
	}
	return nil
}
