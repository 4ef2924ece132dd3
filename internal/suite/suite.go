// Package suite holds the CRUD test cases run against each API collection.
// Cases are written against T so the same code runs under go test and under
// the apitest runner.
package suite

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Adda-Baaj/storefront-apitest/internal/domain"
	"github.com/Adda-Baaj/storefront-apitest/internal/logger"
	"github.com/Adda-Baaj/storefront-apitest/pkg/collections"
	"github.com/Adda-Baaj/storefront-apitest/pkg/httpclient"
	"github.com/Adda-Baaj/storefront-apitest/pkg/restapi"
)

const cleanupTimeout = 10 * time.Second

// T is the part of testing.TB the cases need. *testing.T satisfies it.
type T interface {
	Errorf(format string, args ...any)
	FailNow()
	Helper()
	Logf(format string, args ...any)
	Cleanup(func())
}

// Tracker records items created by the cases until they are deleted again.
type Tracker interface {
	TrackItem(collection, id string) error
	ForgetItem(collection, id string) error
}

// Env is what the cases need to reach the API. Client is shared by every
// resource built from the Env.
type Env struct {
	Client  httpclient.Client
	BaseURL string
	Tracker Tracker
	Log     logger.Logger
}

// Resource binds the shared client to a collection.
func (e *Env) Resource(c collections.Collection) (*restapi.Resource, error) {
	if e == nil || e.Client == nil {
		return nil, fmt.Errorf("suite env has no http client")
	}
	return restapi.New(e.Client, e.BaseURL, c.Path, restapi.WithLogger(e.logger()))
}

func (e *Env) logger() logger.Logger { return logger.Ensure(e.Log) }

func (e *Env) fixture(c collections.Collection, res *restapi.Resource) *Fixture {
	var tr Tracker = noopTracker{}
	if e.Tracker != nil {
		tr = e.Tracker
	}
	return &Fixture{Collection: c, Resource: res, tracker: tr}
}

// Fixture is handed to every case.
type Fixture struct {
	Collection collections.Collection
	Resource   *restapi.Resource
	tracker    Tracker
}

// track records id and schedules its deletion when the case ends.
func (fx *Fixture) track(t T, id domain.ItemID) {
	t.Helper()
	key := id.String()
	if key == "" {
		return
	}
	if err := fx.tracker.TrackItem(fx.Collection.Name, key); err != nil {
		t.Logf("track %s/%s: %v", fx.Collection.Name, key, err)
	}
	t.Cleanup(func() { fx.cleanup(t, key) })
}

func (fx *Fixture) forget(t T, id string) {
	if err := fx.tracker.ForgetItem(fx.Collection.Name, id); err != nil {
		t.Logf("forget %s/%s: %v", fx.Collection.Name, id, err)
	}
}

// cleanup deletes id and drops it from the tracker once it is gone. A
// transport error leaves it tracked for the next sweep.
func (fx *Fixture) cleanup(t T, id string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	resp, err := fx.Resource.Delete(ctx, id, restapi.ExpectFailure())
	if err != nil {
		t.Logf("cleanup %s/%s: %v", fx.Collection.Name, id, err)
		return
	}
	if resp.IsSuccess() || resp.StatusCode == http.StatusNotFound {
		fx.forget(t, id)
	}
}

type noopTracker struct{}

func (noopTracker) TrackItem(string, string) error  { return nil }
func (noopTracker) ForgetItem(string, string) error { return nil }

// Case is a single named check against one collection.
type Case struct {
	Name string
	Run  func(ctx context.Context, t T, fx *Fixture)
}

// Suite is the list of cases for one collection.
type Suite struct {
	Collection collections.Collection
	Cases      []Case
}

// ForCollection returns the suite for a known collection.
func ForCollection(c collections.Collection) (Suite, error) {
	c = c.Normalized()

	var cases []Case
	switch c.Name {
	case collections.Categories:
		cases = crudCases(categorySpec(), c)
	case collections.Products:
		cases = crudCases(productSpec(), c)
	case collections.Services:
		cases = crudCases(serviceSpec(), c)
	case collections.Stores:
		cases = crudCases(storeSpec(), c)
	default:
		return Suite{}, fmt.Errorf("no suite for collection %q", c.Name)
	}
	return Suite{Collection: c, Cases: cases}, nil
}
