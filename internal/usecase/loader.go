package usecase

import (
	"context"

	"module-owner-service/internal/domain"
	"module-owner-service/internal/gitrepo"
	"module-owner-service/internal/ownership"

	"github.com/sirupsen/logrus"
)

// NewIndexLoader возвращает загрузчик снимков конфигурации владения:
// читает сырую конфигурацию проекта, разрешает имена пользователей и
// групп в идентификаторы и строит индекс. Неизвестные имена логируются
// и пропускаются.
func NewIndexLoader(git *gitrepo.Service, accounts domain.AccountRepository, log *logrus.Logger) ownership.Loader {
	return func(ctx context.Context, project string) (*ownership.Index, error) {
		raw, err := git.ProjectOwners(project)
		if err != nil {
			return nil, err
		}

		entries := make([]ownership.Entry, 0, len(raw))
		for _, e := range raw {
			switch e.Section {
			case gitrepo.SectionUser:
				account, err := accounts.GetByUsername(ctx, e.Name)
				if err != nil {
					log.WithError(err).WithFields(logrus.Fields{
						"project": project,
						"user":    e.Name,
					}).Warn("Could not find account for owner config entry")
					continue
				}
				entries = append(entries, ownership.Entry{
					Owner:    ownership.UserKey(account.ID),
					Patterns: e.Patterns,
				})
			case gitrepo.SectionGroup:
				group, err := accounts.GetGroupByName(ctx, e.Name)
				if err != nil {
					log.WithError(err).WithFields(logrus.Fields{
						"project": project,
						"group":   e.Name,
					}).Warn("Could not find group for owner config entry")
					continue
				}
				entries = append(entries, ownership.Entry{
					Owner:    ownership.GroupKey(group.ID),
					Patterns: e.Patterns,
				})
			}
		}

		return ownership.Build(project, entries, log), nil
	}
}
