package service

import (
	"context"
	"errors"
	"io"
	"testing"

	vehicleserrors "ambulink/internal/vehicles/errors"
	"ambulink/internal/vehicles/validator"
	"ambulink/pkg/config"
	apperrors "ambulink/pkg/errors"
	"ambulink/pkg/logger"
	"ambulink/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

type mockVehicleRepo struct {
	createFunc   func(ctx context.Context, vehicle *model.Vehicle) error
	findByIDFunc func(ctx context.Context, id string) (*model.Vehicle, error)
	findFunc     func(ctx context.Context, filter model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, error)
	countFunc    func(ctx context.Context, filter model.VehicleFilter) (int64, error)
	updateFunc   func(ctx context.Context, id string, fields bson.M) (*model.Vehicle, error)
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockVehicleRepo) Create(ctx context.Context, vehicle *model.Vehicle) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, vehicle)
	}
	vehicle.ID = "65f0a1b2c3d4e5f6000000e1"
	return nil
}

func (m *mockVehicleRepo) FindByID(ctx context.Context, id string) (*model.Vehicle, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, vehicleserrors.ErrNotFound
}

func (m *mockVehicleRepo) Find(ctx context.Context, filter model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, filter, limit, offset)
	}
	return []*model.Vehicle{}, nil
}

func (m *mockVehicleRepo) Count(ctx context.Context, filter model.VehicleFilter) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, filter)
	}
	return 0, nil
}

func (m *mockVehicleRepo) Update(ctx context.Context, id string, fields bson.M) (*model.Vehicle, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, fields)
	}
	return &model.Vehicle{ID: id}, nil
}

func (m *mockVehicleRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockDriverReferences struct {
	referenced bool
	err        error
}

func (m mockDriverReferences) ExistsByVehicle(ctx context.Context, vehicleID string) (bool, error) {
	return m.referenced, m.err
}

func newTestService(repo *mockVehicleRepo, refs DriverReferences) VehicleService {
	log := logger.New(logger.Config{
		Level:  "error",
		Format: logger.JSON,
		Output: io.Discard,
	})
	return NewVehicleService(repo, refs, validator.NewVehicleValidator(log), &config.Config{Log: log})
}

func validVehicle() *model.Vehicle {
	return &model.Vehicle{
		RegistrationNumber: " ka-01-ab-1234 ",
		Type:               "Advanced Life Support",
		Model:              "Traveller",
		Manufacturer:       "Force",
		Year:               2022,
		Capacity:           4,
		Features:           []string{"Oxygen", "Stretcher"},
	}
}

func TestCreate_SanitizesAndDefaultsStatus(t *testing.T) {
	var stored *model.Vehicle
	repo := &mockVehicleRepo{
		createFunc: func(ctx context.Context, vehicle *model.Vehicle) error {
			stored = vehicle
			vehicle.ID = "65f0a1b2c3d4e5f6000000e1"
			return nil
		},
	}
	svc := newTestService(repo, mockDriverReferences{})

	vehicle := validVehicle()
	vehicle.ID = "client-chosen"
	if err := svc.Create(context.Background(), vehicle); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stored.Status != model.VehicleStatusActive {
		t.Errorf("expected default status active, got %q", stored.Status)
	}
	if stored.RegistrationNumber != "KA01AB1234" {
		t.Errorf("registration number not normalised: %q", stored.RegistrationNumber)
	}
	if vehicle.ID != "65f0a1b2c3d4e5f6000000e1" {
		t.Errorf("expected repository-assigned id, got %q", vehicle.ID)
	}
}

func TestCreate_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(v *model.Vehicle)
		repoErr  error
		wantCode string
	}{
		{"unknown type", func(v *model.Vehicle) { v.Type = "Helicopter" }, nil, apperrors.CodeValidation},
		{"unknown feature", func(v *model.Vehicle) { v.Features = []string{"Jacuzzi"} }, nil, apperrors.CodeValidation},
		{"year out of range", func(v *model.Vehicle) { v.Year = 1950 }, nil, apperrors.CodeValidation},
		{"bad status", func(v *model.Vehicle) { v.Status = "parked" }, nil, apperrors.CodeValidation},
		{"duplicate registration", nil, vehicleserrors.ErrDuplicateRegistration, apperrors.CodeConflict},
		{"storage failure", nil, errors.New("boom"), apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockVehicleRepo{
				createFunc: func(ctx context.Context, vehicle *model.Vehicle) error { return tt.repoErr },
			}
			vehicle := validVehicle()
			if tt.mutate != nil {
				tt.mutate(vehicle)
			}

			err := newTestService(repo, mockDriverReferences{}).Create(context.Background(), vehicle)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestGetByID_MapsRepositoryErrors(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		repoErr  error
		wantCode string
	}{
		{"empty id", " ", nil, apperrors.CodeInvalidInput},
		{"not found", "65f0a1b2c3d4e5f6000000e1", vehicleserrors.ErrNotFound, apperrors.CodeNotFound},
		{"invalid id", "nope", vehicleserrors.ErrInvalidID, apperrors.CodeInvalidInput},
		{"storage failure", "65f0a1b2c3d4e5f6000000e1", errors.New("boom"), apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockVehicleRepo{
				findByIDFunc: func(ctx context.Context, id string) (*model.Vehicle, error) { return nil, tt.repoErr },
			}
			_, err := newTestService(repo, mockDriverReferences{}).GetByID(context.Background(), tt.id)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestList_ReturnsPageAndTotal(t *testing.T) {
	var gotFilter model.VehicleFilter
	repo := &mockVehicleRepo{
		findFunc: func(ctx context.Context, filter model.VehicleFilter, limit int, offset int64) ([]*model.Vehicle, error) {
			gotFilter = filter
			return []*model.Vehicle{{ID: "a"}, {ID: "b"}}, nil
		},
		countFunc: func(ctx context.Context, filter model.VehicleFilter) (int64, error) { return 7, nil },
	}

	filter := model.VehicleFilter{Type: "Neonatal", Status: model.VehicleStatusActive}
	vehicles, total, err := newTestService(repo, mockDriverReferences{}).List(context.Background(), filter, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vehicles) != 2 || total != 7 {
		t.Errorf("expected 2 vehicles of 7, got %d of %d", len(vehicles), total)
	}
	if gotFilter != filter {
		t.Errorf("filter = %+v", gotFilter)
	}
}

func TestList_CountFailure(t *testing.T) {
	repo := &mockVehicleRepo{
		countFunc: func(ctx context.Context, filter model.VehicleFilter) (int64, error) { return 0, errors.New("boom") },
	}
	_, _, err := newTestService(repo, mockDriverReferences{}).List(context.Background(), model.VehicleFilter{}, 10, 0)
	if !apperrors.HasCode(err, apperrors.CodeInternal) {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestUpdate_OnlyProvidedFields(t *testing.T) {
	var gotFields bson.M
	repo := &mockVehicleRepo{
		updateFunc: func(ctx context.Context, id string, fields bson.M) (*model.Vehicle, error) {
			gotFields = fields
			return &model.Vehicle{ID: id}, nil
		},
	}

	capacity := 6
	features := []string{" Ventilator "}
	_, err := newTestService(repo, mockDriverReferences{}).Update(context.Background(), "v1", &model.VehicleUpdate{
		Capacity: &capacity,
		Features: &features,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(gotFields) != 2 {
		t.Fatalf("expected 2 fields, got %v", gotFields)
	}
	if gotFields["capacity"] != 6 {
		t.Errorf("capacity = %v", gotFields["capacity"])
	}
	if got := gotFields["features"].([]string); len(got) != 1 || got[0] != "Ventilator" {
		t.Errorf("features = %v", got)
	}
}

func TestUpdate_Rejections(t *testing.T) {
	year := 1900
	tests := []struct {
		name     string
		update   *model.VehicleUpdate
		wantCode string
	}{
		{"nil payload", nil, apperrors.CodeInvalidInput},
		{"empty payload", &model.VehicleUpdate{}, apperrors.CodeInvalidInput},
		{"invalid year", &model.VehicleUpdate{Year: &year}, apperrors.CodeValidation},
		{"invalid type", &model.VehicleUpdate{Type: "Bus"}, apperrors.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestService(&mockVehicleRepo{}, mockDriverReferences{}).Update(context.Background(), "v1", tt.update)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	var gotFields bson.M
	repo := &mockVehicleRepo{
		updateFunc: func(ctx context.Context, id string, fields bson.M) (*model.Vehicle, error) {
			gotFields = fields
			return &model.Vehicle{ID: id, Status: fields["status"].(string)}, nil
		},
	}
	svc := newTestService(repo, mockDriverReferences{})

	vehicle, err := svc.UpdateStatus(context.Background(), "v1", model.VehicleStatusMaintenance)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicle.Status != model.VehicleStatusMaintenance || gotFields["status"] != model.VehicleStatusMaintenance {
		t.Errorf("status not applied: %+v %v", vehicle, gotFields)
	}

	if _, err := svc.UpdateStatus(context.Background(), "v1", "scrapped"); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected invalid input for unknown status, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name     string
		refs     mockDriverReferences
		repoErr  error
		wantCode string
	}{
		{"unreferenced", mockDriverReferences{}, nil, ""},
		{"assigned to a driver", mockDriverReferences{referenced: true}, nil, apperrors.CodeConflict},
		{"reference check fails", mockDriverReferences{err: errors.New("boom")}, nil, apperrors.CodeInternal},
		{"missing", mockDriverReferences{}, vehicleserrors.ErrNotFound, apperrors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deleted := false
			repo := &mockVehicleRepo{
				deleteFunc: func(ctx context.Context, id string) error {
					deleted = tt.repoErr == nil
					return tt.repoErr
				},
			}

			err := newTestService(repo, tt.refs).Delete(context.Background(), "v1")
			if tt.wantCode == "" {
				if err != nil || !deleted {
					t.Fatalf("expected deletion, got err=%v deleted=%v", err, deleted)
				}
				return
			}
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("expected %s, got %v", tt.wantCode, err)
			}
			if deleted {
				t.Error("vehicle should not have been deleted")
			}
		})
	}
}
