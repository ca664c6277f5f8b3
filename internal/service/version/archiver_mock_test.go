package version

import (
	"context"
	"github.com/heartmarshall/glossary-backend/internal/domain"
	"sync"
)

var _ archiver = &archiverMock{}

type archiverMock struct {
	StoreFunc    func(ctx context.Context, v domain.DictionaryVersion) (string, error)
	VersionsFunc func(ctx context.Context) ([]domain.DictionaryVersion, error)

	calls struct {
		Store []struct {
			Ctx context.Context
			V   domain.DictionaryVersion
		}
		Versions []struct {
			Ctx context.Context
		}
	}
	lockStore    sync.RWMutex
	lockVersions sync.RWMutex
}

func (mock *archiverMock) Store(ctx context.Context, v domain.DictionaryVersion) (string, error) {
	if mock.StoreFunc == nil {
		panic("archiverMock.StoreFunc: method is nil but archiver.Store was just called")
	}
	callInfo := struct {
		Ctx context.Context
		V   domain.DictionaryVersion
	}{Ctx: ctx, V: v}
	mock.lockStore.Lock()
	mock.calls.Store = append(mock.calls.Store, callInfo)
	mock.lockStore.Unlock()
	return mock.StoreFunc(ctx, v)
}

func (mock *archiverMock) StoreCalls() []struct {
	Ctx context.Context
	V   domain.DictionaryVersion
} {
	mock.lockStore.RLock()
	calls := mock.calls.Store
	mock.lockStore.RUnlock()
	return calls
}

func (mock *archiverMock) Versions(ctx context.Context) ([]domain.DictionaryVersion, error) {
	if mock.VersionsFunc == nil {
		panic("archiverMock.VersionsFunc: method is nil but archiver.Versions was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockVersions.Lock()
	mock.calls.Versions = append(mock.calls.Versions, callInfo)
	mock.lockVersions.Unlock()
	return mock.VersionsFunc(ctx)
}

func (mock *archiverMock) VersionsCalls() []struct {
	Ctx context.Context
} {
	mock.lockVersions.RLock()
	calls := mock.calls.Versions
	mock.lockVersions.RUnlock()
	return calls
}
