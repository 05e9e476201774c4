package customers

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	byID map[uuid.UUID]Customer
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]Customer)}
}

func (r *fakeRepo) List(_ context.Context) ([]Customer, error) {
	out := make([]Customer, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeRepo) Get(_ context.Context, id uuid.UUID) (*Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (*Customer, error) {
	for _, c := range r.byID {
		if strings.EqualFold(c.Email, email) {
			cc := c
			return &cc, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) Create(_ context.Context, customer Customer) (*Customer, error) {
	customer.ID = uuid.New()
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = customer.CreatedAt
	r.byID[customer.ID] = customer
	return &customer, nil
}

func (r *fakeRepo) Update(_ context.Context, id uuid.UUID, updates map[string]any) (*Customer, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := updates["email"]; ok {
		c.Email = v.(string)
	}
	if v, ok := updates["city"]; ok {
		c.City = v.(string)
	}
	r.byID[id] = c
	return &c, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func validRequest() CreateCustomerRequest {
	return CreateCustomerRequest{
		Name:    "Ahmad Karimi",
		Email:   "ahmad@example.com",
		Phone:   "+93700000000",
		Address: "Shahr-e Naw",
		City:    "Kabul",
		Country: "Afghanistan",
	}
}

func TestCreateCustomerTrimsFields(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	req := validRequest()
	req.Name = "  Ahmad Karimi  "
	req.City = "\tKabul\n"

	customer, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Ahmad Karimi", customer.Name)
	assert.Equal(t, "Kabul", customer.City)
}

func TestCreateCustomerRequiresAllFields(t *testing.T) {
	svc := NewService(newFakeRepo())

	req := validRequest()
	req.Phone = "   "
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrFieldsRequired)

	req = validRequest()
	req.Email = "not-an-email"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrFieldsRequired)
}

func TestCreateCustomerDuplicateEmail(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.Name = "Someone Else"
	_, err = svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Len(t, repo.byID, 1)
}

func TestUpdateCustomerPartial(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	city := "Herat"
	updated, err := svc.Update(context.Background(), created.ID, UpdateCustomerRequest{City: &city})
	require.NoError(t, err)
	assert.Equal(t, "Herat", updated.City)
	assert.Equal(t, "Ahmad Karimi", updated.Name)

	bad := "nope"
	_, err = svc.Update(context.Background(), created.ID, UpdateCustomerRequest{Email: &bad})
	assert.ErrorIs(t, err, ErrFieldsRequired)
}

func TestDeleteCustomer(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), validRequest())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))
	assert.Empty(t, repo.byID)

	err = svc.Delete(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
