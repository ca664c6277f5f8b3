package glossary

import (
	"context"
	"github.com/heartmarshall/glossary-backend/internal/domain"
	"sync"
)

var _ snapshotStore = &snapshotStoreMock{}

type snapshotStoreMock struct {
	SaveFunc func(ctx context.Context, terms map[string]domain.TechnicalTerm, rev uint64) (bool, error)

	calls struct {
		Save []struct {
			Ctx   context.Context
			Terms map[string]domain.TechnicalTerm
			Rev   uint64
		}
	}
	lockSave sync.RWMutex
}

func (mock *snapshotStoreMock) Save(ctx context.Context, terms map[string]domain.TechnicalTerm, rev uint64) (bool, error) {
	if mock.SaveFunc == nil {
		panic("snapshotStoreMock.SaveFunc: method is nil but snapshotStore.Save was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Terms map[string]domain.TechnicalTerm
		Rev   uint64
	}{Ctx: ctx, Terms: terms, Rev: rev}
	mock.lockSave.Lock()
	mock.calls.Save = append(mock.calls.Save, callInfo)
	mock.lockSave.Unlock()
	return mock.SaveFunc(ctx, terms, rev)
}

func (mock *snapshotStoreMock) SaveCalls() []struct {
	Ctx   context.Context
	Terms map[string]domain.TechnicalTerm
	Rev   uint64
} {
	mock.lockSave.RLock()
	calls := mock.calls.Save
	mock.lockSave.RUnlock()
	return calls
}
