package gitrepo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"module-owner-service/internal/domain"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	gitcfg "github.com/go-git/go-git/v5/plumbing/format/config"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
	"github.com/sirupsen/logrus"
)

// ProjectConfigFile имя файла конфигурации владения в ветке refs/meta/config.
const ProjectConfigFile = "moduleowner.config"

// Секции конфигурации владения.
const (
	SectionUser  = "user"
	SectionGroup = "group"
	optionPath   = "path"
)

// ConfigEntry сырая запись конфигурации: секция (user/group), имя
// субъекта и его шаблоны путей. Разрешение имен в идентификаторы
// выполняет вызывающая сторона.
type ConfigEntry struct {
	Section  string
	Name     string
	Patterns []string
}

// Service предоставляет доступ к git-репозиториям проектов: список
// файлов ревизии и конфигурацию владения модулями.
type Service struct {
	baseDir      string
	globalConfig string
	log          *logrus.Logger
}

// New создает новый экземпляр Service. baseDir - каталог с bare-репозиториями
// проектов, globalConfig - путь к глобальному файлу конфигурации владения,
// используемому как fallback.
func New(baseDir, globalConfig string, log *logrus.Logger) *Service {
	return &Service{
		baseDir:      baseDir,
		globalConfig: globalConfig,
		log:          log,
	}
}

func (s *Service) open(project string) (*git.Repository, error) {
	path := filepath.Join(s.baseDir, project+".git")
	repo, err := git.PlainOpen(path)
	if err == nil {
		return repo, nil
	}
	repo, err = git.PlainOpen(filepath.Join(s.baseDir, project))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRepositoryAccess, project, err)
	}
	return repo, nil
}

// ChangedFiles возвращает список путей, затронутых ревизией.
// Для коммита без родителя - все пути дерева; для коммита с родителем -
// измененные пути между родителем и коммитом, при этом переименования
// и копии дают оба пути: старый и новый.
func (s *Service) ChangedFiles(project, revision string) ([]string, error) {
	repo, err := s.open(project)
	if err != nil {
		return nil, err
	}

	commit, err := repo.CommitObject(plumbing.NewHash(revision))
	if err != nil {
		if errors.Is(err, plumbing.ErrObjectNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrCommitNotFound, revision)
		}
		return nil, fmt.Errorf("failed to read commit %s: %w", revision, err)
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read commit tree: %w", err)
	}

	if commit.NumParents() == 0 {
		var files []string
		err := tree.Files().ForEach(func(f *object.File) error {
			files = append(files, f.Name)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk commit tree: %w", err)
		}
		return files, nil
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("failed to read parent commit: %w", err)
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to read parent tree: %w", err)
	}

	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	var files []string
	seen := make(map[string]bool)
	add := func(path string) {
		if path != "" && !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve change action: %w", err)
		}
		switch action {
		case merkletrie.Insert:
			add(change.To.Name)
		case merkletrie.Delete:
			add(change.From.Name)
		default:
			// изменение либо переименование/копия
			add(change.From.Name)
			add(change.To.Name)
		}
	}
	return files, nil
}

// ProjectOwners читает конфигурацию владения проекта из ветки
// refs/meta/config. Если проект или его конфигурация недоступны,
// выполняется откат на глобальный файл конфигурации; его отсутствие
// означает пустую конфигурацию, а не ошибку.
func (s *Service) ProjectOwners(project string) ([]ConfigEntry, error) {
	content, err := s.projectConfigContent(project)
	if err != nil {
		s.log.WithError(err).WithField("project", project).
			Warn("Falling back to global module owner config")
		return s.globalOwners()
	}
	return parseOwnerConfig(content)
}

func (s *Service) projectConfigContent(project string) (string, error) {
	repo, err := s.open(project)
	if err != nil {
		return "", err
	}
	ref, err := repo.Reference(plumbing.ReferenceName(MetaConfigRef), true)
	if err != nil {
		return "", fmt.Errorf("%w: no %s in %s", domain.ErrConfigResolution, MetaConfigRef, project)
	}
	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return "", fmt.Errorf("%w: cannot read %s commit: %v", domain.ErrConfigResolution, MetaConfigRef, err)
	}
	f, err := commit.File(ProjectConfigFile)
	if err != nil {
		return "", fmt.Errorf("%w: no %s in %s", domain.ErrConfigResolution, ProjectConfigFile, project)
	}
	content, err := f.Contents()
	if err != nil {
		return "", fmt.Errorf("%w: cannot read %s: %v", domain.ErrConfigResolution, ProjectConfigFile, err)
	}
	return content, nil
}

func (s *Service) globalOwners() ([]ConfigEntry, error) {
	if s.globalConfig == "" {
		return nil, nil
	}
	content, err := os.ReadFile(s.globalConfig)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read global config: %w", err)
	}
	return parseOwnerConfig(string(content))
}

// MetaConfigRef конфигурационная ветка проекта.
const MetaConfigRef = "refs/meta/config"

// parseOwnerConfig разбирает конфигурацию владения в формате gitconfig:
//
//	[user "alice"]
//	    path = ^src/.*\\.go$
//	[group "platform"]
//	    path = ^docs/.*$
func parseOwnerConfig(content string) ([]ConfigEntry, error) {
	cfg := gitcfg.New()
	if err := gitcfg.NewDecoder(strings.NewReader(content)).Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: malformed owner config: %v", domain.ErrConfigResolution, err)
	}

	var entries []ConfigEntry
	for _, section := range []string{SectionUser, SectionGroup} {
		for _, sub := range cfg.Section(section).Subsections {
			var patterns []string
			for _, opt := range sub.Options {
				if strings.EqualFold(opt.Key, optionPath) && opt.Value != "" {
					patterns = append(patterns, opt.Value)
				}
			}
			if len(patterns) == 0 {
				continue
			}
			entries = append(entries, ConfigEntry{
				Section:  section,
				Name:     sub.Name,
				Patterns: patterns,
			})
		}
	}
	return entries, nil
}
