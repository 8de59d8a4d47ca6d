package fakes

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/systmms/bbenv/internal/bitbucket"
)

// WriteCall records one create or update issued against the fake store.
type WriteCall struct {
	Op       string // "create" or "update"
	EnvUUID  string
	VarUUID  string // empty for creates
	Variable bitbucket.Variable
}

// FakeStore is a manual fake of the envsync.Store interface.
//
// Environments and variable pages are configured up front; every write is
// recorded in Writes. Errors can be injected per operation to exercise
// abort paths.
//
// Example usage:
//
//	fake := fakes.NewFakeStore().
//	    WithEnvironment("staging", "{s1}").
//	    WithPage("", fakes.Page("", v1, v2))
type FakeStore struct {
	environments []bitbucket.Environment
	pages        map[string]bitbucket.VariablePage // page URL -> page ("" is the first page)

	EnvironmentsErr error
	PageErr         error
	CreateErr       error
	UpdateErr       error

	Writes    []WriteCall
	PageCalls []string // page URLs requested, in order

	mu sync.Mutex
}

// NewFakeStore creates an empty fake store.
func NewFakeStore() *FakeStore {
	return &FakeStore{pages: make(map[string]bitbucket.VariablePage)}
}

// WithEnvironment adds a named deployment environment.
func (f *FakeStore) WithEnvironment(name, uuid string) *FakeStore {
	f.environments = append(f.environments, bitbucket.Environment{Name: name, UUID: uuid})
	return f
}

// WithPage registers the variable page served for the given page URL.
// The empty URL is the first page of the listing.
func (f *FakeStore) WithPage(pageURL string, page bitbucket.VariablePage) *FakeStore {
	f.pages[pageURL] = page
	return f
}

// Page builds a VariablePage from its parts.
func Page(next string, values ...bitbucket.Variable) bitbucket.VariablePage {
	return bitbucket.VariablePage{Values: values, Next: next}
}

func (f *FakeStore) Environments(ctx context.Context, scope bitbucket.Scope) ([]bitbucket.Environment, error) {
	if f.EnvironmentsErr != nil {
		return nil, f.EnvironmentsErr
	}
	return f.environments, nil
}

func (f *FakeStore) VariablesPage(ctx context.Context, scope bitbucket.Scope, envUUID, pageURL string) (bitbucket.VariablePage, error) {
	f.mu.Lock()
	f.PageCalls = append(f.PageCalls, pageURL)
	f.mu.Unlock()

	if f.PageErr != nil {
		return bitbucket.VariablePage{}, f.PageErr
	}
	return f.pages[pageURL], nil
}

func (f *FakeStore) CreateVariable(ctx context.Context, scope bitbucket.Scope, envUUID string, v bitbucket.Variable) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	// The remote store assigns the handle; mirror that on creation.
	v.UUID = "{" + uuid.NewString() + "}"
	f.Writes = append(f.Writes, WriteCall{Op: "create", EnvUUID: envUUID, Variable: v})
	return nil
}

func (f *FakeStore) UpdateVariable(ctx context.Context, scope bitbucket.Scope, envUUID, varUUID string, v bitbucket.Variable) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Writes = append(f.Writes, WriteCall{Op: "update", EnvUUID: envUUID, VarUUID: varUUID, Variable: v})
	return nil
}
