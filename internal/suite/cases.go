package suite

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Adda-Baaj/storefront-apitest/internal/domain"
	"github.com/Adda-Baaj/storefront-apitest/pkg/collections"
	"github.com/Adda-Baaj/storefront-apitest/pkg/restapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// missingID is never assigned by the API.
const missingID = "0"

// itemSpec describes one item type well enough to drive the generic CRUD cases.
type itemSpec[I any] struct {
	// valid builds a fresh item the API accepts.
	valid func() I
	// invalid builds an item the API rejects with exactly invalidErrors.
	invalid       func() I
	invalidErrors []string
	// patch builds a partial item for updates.
	patch func() I
	id    func(I) domain.ItemID
	// normalize strips server managed fields before comparing items.
	normalize func(I) I
}

func crudCases[I any](s itemSpec[I], c collections.Collection) []Case {
	cases := []Case{
		{Name: "List", Run: func(ctx context.Context, t T, fx *Fixture) {
			page := listPage[I](ctx, t, fx)
			assertPage(t, page, c.DefaultLimit)
		}},
	}
	for _, limit := range c.LimitProbes {
		cases = append(cases, Case{
			Name: fmt.Sprintf("ListByLimit_%d", limit),
			Run: func(ctx context.Context, t T, fx *Fixture) {
				page := listPage[I](ctx, t, fx, restapi.WithLimit(limit))
				assertPage(t, page, limit)
			},
		})
	}

	return append(cases,
		Case{Name: "ListMaxLimit", Run: func(ctx context.Context, t T, fx *Fixture) {
			over := 99
			if over <= c.MaxLimit {
				over = c.MaxLimit * 4
			}
			page := listPage[I](ctx, t, fx, restapi.WithLimit(over))
			assertPage(t, page, c.MaxLimit)
		}},
		Case{Name: "GetSuccess", Run: s.getSuccess},
		Case{Name: "GetNotFound", Run: func(ctx context.Context, t T, fx *Fixture) {
			resp, err := fx.Resource.Get(ctx, missingID, restapi.ExpectFailure())
			require.NoError(t, err)
			assertNotFound(t, resp, missingID)
		}},
		Case{Name: "DeleteSuccess", Run: s.deleteSuccess},
		Case{Name: "DeleteNotFound", Run: func(ctx context.Context, t T, fx *Fixture) {
			resp, err := fx.Resource.Delete(ctx, missingID, restapi.ExpectFailure())
			require.NoError(t, err)
			assertNotFound(t, resp, missingID)
		}},
		Case{Name: "CreateSuccess", Run: s.createSuccess},
		Case{Name: "CreateInvalid", Run: s.createInvalid},
		Case{Name: "UpdateSuccess", Run: s.updateSuccess},
		Case{Name: "UpdateInvalid", Run: s.updateInvalid},
		Case{Name: "UpdateNotFound", Run: func(ctx context.Context, t T, fx *Fixture) {
			resp, err := fx.Resource.Update(ctx, missingID, s.patch(), restapi.ExpectFailure())
			require.NoError(t, err)
			assertNotFound(t, resp, missingID)
		}},
	)
}

func (s itemSpec[I]) getSuccess(ctx context.Context, t T, fx *Fixture) {
	item := s.valid()
	created := s.create(ctx, t, fx, item)

	resp, err := fx.Resource.Get(ctx, s.id(created).String())
	require.NoError(t, err)
	s.assertSame(t, item, decode[I](t, resp), "fetched")
}

func (s itemSpec[I]) deleteSuccess(ctx context.Context, t T, fx *Fixture) {
	item := s.valid()
	id := s.id(s.create(ctx, t, fx, item)).String()

	resp, err := fx.Resource.Delete(ctx, id)
	require.NoError(t, err)
	fx.forget(t, id)
	s.assertSame(t, item, decode[I](t, resp), "deleted")

	resp, err = fx.Resource.Get(ctx, id, restapi.ExpectFailure())
	require.NoError(t, err)
	assertNotFound(t, resp, id)
}

func (s itemSpec[I]) createSuccess(ctx context.Context, t T, fx *Fixture) {
	item := s.valid()
	s.assertSame(t, item, s.create(ctx, t, fx, item), "created")
}

func (s itemSpec[I]) createInvalid(ctx context.Context, t T, fx *Fixture) {
	resp, err := fx.Resource.Create(ctx, s.invalid(), restapi.ExpectFailure())
	require.NoError(t, err)
	if resp.IsSuccess() {
		if accepted, err := restapi.Decode[I](resp); err == nil {
			fx.track(t, s.id(accepted))
		}
	}
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, "status code: %s", resp.Body)

	apiErr := decode[domain.APIError](t, resp)
	assert.Equal(t, http.StatusBadRequest, apiErr.Code, "error code")
	assert.Equal(t, domain.ErrorNameBadRequest, apiErr.Name, "error name")
	assert.Equal(t, domain.ErrorClassBadRequest, apiErr.ClassName, "error className")
	assert.Equal(t, domain.MessageInvalidParameters, apiErr.Message, "error message")
	assert.Equal(t, s.invalidErrors, []string(apiErr.Errors), "error list")
}

func (s itemSpec[I]) updateSuccess(ctx context.Context, t T, fx *Fixture) {
	before := s.create(ctx, t, fx, s.valid())
	patch := s.patch()

	resp, err := fx.Resource.Update(ctx, s.id(before).String(), patch)
	require.NoError(t, err)

	want, err := overlay(before, patch)
	require.NoError(t, err)
	s.assertSame(t, want, decode[I](t, resp), "updated")
}

// updateInvalid pins down that the API does not validate PATCH bodies: a
// payload rejected on create is stored as sent.
func (s itemSpec[I]) updateInvalid(ctx context.Context, t T, fx *Fixture) {
	before := s.create(ctx, t, fx, s.valid())
	patch := s.invalid()

	resp, err := fx.Resource.Update(ctx, s.id(before).String(), patch, restapi.ExpectFailure())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, "invalid patch should be accepted: %s", resp.Body)

	want, err := overlay(before, patch)
	require.NoError(t, err)
	s.assertSame(t, want, decode[I](t, resp), "updated")
}

// create posts item, requires success and tracks the created id.
func (s itemSpec[I]) create(ctx context.Context, t T, fx *Fixture, item I) I {
	t.Helper()
	resp, err := fx.Resource.Create(ctx, item)
	require.NoError(t, err)
	created := decode[I](t, resp)
	require.NotEmpty(t, s.id(created), "created %s item has no id", fx.Collection.Name)
	fx.track(t, s.id(created))
	return created
}

func (s itemSpec[I]) assertSame(t T, want, got I, what string) {
	t.Helper()
	assert.Equal(t, s.normalize(want), s.normalize(got), "%s item", what)
}

func listPage[I any](ctx context.Context, t T, fx *Fixture, opts ...restapi.CallOption) domain.Page[I] {
	t.Helper()
	resp, err := fx.Resource.List(ctx, opts...)
	require.NoError(t, err)
	return decode[domain.Page[I]](t, resp)
}

func assertPage[I any](t T, page domain.Page[I], limit int) {
	t.Helper()
	assert.Equal(t, limit, page.Limit, "limit")
	assert.Equal(t, 0, page.Skip, "skip")
	assert.Greater(t, page.Total, 0, "total")
	assert.Len(t, page.Data, page.Limit, "data length")
}

func assertNotFound(t T, resp *restapi.Response, id string) {
	t.Helper()
	require.Equal(t, http.StatusNotFound, resp.StatusCode, "status code: %s", resp.Body)

	apiErr := decode[domain.APIError](t, resp)
	assert.Equal(t, http.StatusNotFound, apiErr.Code, "error code")
	assert.Equal(t, domain.ErrorNameNotFound, apiErr.Name, "error name")
	assert.Equal(t, domain.ErrorClassNotFound, apiErr.ClassName, "error className")
	assert.Equal(t, domain.NotFoundMessage(id), apiErr.Message, "error message")
}

func decode[V any](t T, resp *restapi.Response) V {
	t.Helper()
	v, err := restapi.Decode[V](resp)
	require.NoError(t, err)
	return v
}

// overlay returns base with every field present in patch's JSON form replaced,
// which is what a PATCH is expected to produce.
func overlay[I any](base, patch I) (I, error) {
	var out I

	fields, err := toFields(base)
	if err != nil {
		return out, err
	}
	changes, err := toFields(patch)
	if err != nil {
		return out, err
	}
	for k, v := range changes {
		fields[k] = v
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}

func toFields(v any) (map[string]json.RawMessage, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}
