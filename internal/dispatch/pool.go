package dispatch

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Запас очереди на каждого воркера.
const queuePerWorker = 16

type queuedTask struct {
	name string
	run  func(ctx context.Context) error
}

// Pool ограниченный пул обработки событий: limit воркеров и
// буферизованная очередь на limit*queuePerWorker задач. Ошибка задачи
// логируется и не останавливает пул.
type Pool struct {
	group *errgroup.Group
	tasks chan queuedTask
	log   *logrus.Logger
}

// NewPool создает новый экземпляр Pool и запускает воркеров.
func NewPool(limit int, log *logrus.Logger) *Pool {
	if limit < 1 {
		limit = 1
	}
	p := &Pool{
		group: new(errgroup.Group),
		tasks: make(chan queuedTask, limit*queuePerWorker),
		log:   log,
	}
	for i := 0; i < limit; i++ {
		p.group.Go(p.worker)
	}
	return p
}

func (p *Pool) worker() error {
	for t := range p.tasks {
		if err := t.run(context.Background()); err != nil {
			p.log.WithError(err).WithField("task", t.name).Error("Event task failed")
		}
	}
	return nil
}

// Submit ставит задачу в очередь. Занятые воркеры ответ не задерживают:
// блокировка наступает только при переполненной очереди. Контекст
// запроса к этому моменту уже завершен, поэтому задача получает
// собственный фоновый контекст.
func (p *Pool) Submit(name string, task func(ctx context.Context) error) {
	p.tasks <- queuedTask{name: name, run: task}
}

// Wait закрывает очередь и дожидается завершения всех поставленных
// задач. После Wait пул использовать нельзя.
func (p *Pool) Wait() {
	close(p.tasks)
	_ = p.group.Wait()
}
