package gopg

import (
	"github.com/go-pg/pg"

	"github.com/interactive-solutions/go-semaphore"
)

const defaultRecentLimit = 50

func NewDispatchRepository(db *pg.DB) semaphore.DispatchRepository {
	return &dispatchRepository{
		db: db,
	}
}

type dispatchWrapper struct {
	TableName struct{} `sql:"semaphore_dispatches,alias:sd" json:"-"`

	*semaphore.Dispatch
}

type dispatchRepository struct {
	db *pg.DB
}

func (repo *dispatchRepository) Create(dispatch *semaphore.Dispatch) error {
	return repo.db.Insert(&dispatchWrapper{Dispatch: dispatch})
}

func (repo *dispatchRepository) GetRecent(limit int) ([]semaphore.Dispatch, error) {
	var wrapped []dispatchWrapper
	dispatches := make([]semaphore.Dispatch, 0)

	if limit <= 0 {
		limit = defaultRecentLimit
	}

	err := repo.db.Model(&wrapped).
		Order("created_at DESC").
		Limit(limit).
		Select()

	if err != nil && err != pg.ErrNoRows {
		return dispatches, err
	}

	for _, d := range wrapped {
		dispatches = append(dispatches, *d.Dispatch)
	}

	return dispatches, nil
}
