package service

import (
	"context"
	"errors"
	"time"

	"garagelog/internal/model"
)

// In-memory fakes for the repository and storage contracts.

type fakeVehicleRepo struct {
	vehicles        map[string]*model.Vehicle
	vehicleCount    int
	countErr        error
	created         []*model.Vehicle
	cascadeLocators []string
	cascadeCalls    int
	cascadeErr      error
}

func (f *fakeVehicleRepo) Create(_ context.Context, v *model.Vehicle) error {
	v.ID = "veh-new"
	v.CreatedAt = time.Now()
	f.created = append(f.created, v)
	return nil
}

func (f *fakeVehicleRepo) GetByID(_ context.Context, id string) (*model.Vehicle, error) {
	return f.vehicles[id], nil
}

func (f *fakeVehicleRepo) ListByUser(_ context.Context, userID string) ([]model.Vehicle, error) {
	var out []model.Vehicle
	for _, v := range f.vehicles {
		if v.UserID == userID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (f *fakeVehicleRepo) CountByUser(_ context.Context, _ string) (int, error) {
	return f.vehicleCount, f.countErr
}

func (f *fakeVehicleRepo) DeleteCascade(_ context.Context, vehicleID, _ string) ([]string, error) {
	f.cascadeCalls++
	if f.cascadeErr != nil {
		return nil, f.cascadeErr
	}
	delete(f.vehicles, vehicleID)
	return f.cascadeLocators, nil
}

type fakeMaintenanceRepo struct {
	byID            map[string]*model.Maintenance
	owners          map[string]string
	serviceCount    int
	created         []*model.Maintenance
	createdLocators [][]string
	createErr       error
	updated         []*model.Maintenance
	replaced        [][]string
	replaceRemoved  []string
	cascadeLocators []string
	cascadeCalls    int
}

func (f *fakeMaintenanceRepo) Create(_ context.Context, m *model.Maintenance, _ string, locators []string) error {
	if f.createErr != nil {
		return f.createErr
	}
	m.ID = "mnt-new"
	m.CreatedAt = time.Now()
	f.created = append(f.created, m)
	f.createdLocators = append(f.createdLocators, locators)
	return nil
}

func (f *fakeMaintenanceRepo) GetWithOwner(_ context.Context, id string) (*model.Maintenance, string, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, "", nil
	}
	return m, f.owners[id], nil
}

func (f *fakeMaintenanceRepo) ListByVehicle(_ context.Context, vehicleID string) ([]model.Maintenance, error) {
	var out []model.Maintenance
	for _, m := range f.byID {
		if m.VehicleID == vehicleID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeMaintenanceRepo) CountByUser(_ context.Context, _ string) (int, error) {
	return f.serviceCount, nil
}

func (f *fakeMaintenanceRepo) Update(_ context.Context, m *model.Maintenance) error {
	f.updated = append(f.updated, m)
	return nil
}

func (f *fakeMaintenanceRepo) UpdateWithImages(_ context.Context, m *model.Maintenance, _ string, locators []string) ([]string, error) {
	f.updated = append(f.updated, m)
	f.replaced = append(f.replaced, locators)
	return f.replaceRemoved, nil
}

func (f *fakeMaintenanceRepo) DeleteCascade(_ context.Context, maintenanceID, _ string) ([]string, error) {
	f.cascadeCalls++
	delete(f.byID, maintenanceID)
	return f.cascadeLocators, nil
}

type fakeImageRepo struct {
	img         *model.MaintenanceImage
	owner       string
	inserted    []*model.MaintenanceImage
	insertErr   error
	deleteCalls int
	deleteErr   error
}

func (f *fakeImageRepo) CheckAndInsert(_ context.Context, img *model.MaintenanceImage, _ string) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	img.ID = "img-new"
	img.CreatedAt = time.Now()
	f.inserted = append(f.inserted, img)
	return nil
}

func (f *fakeImageRepo) GetWithOwner(_ context.Context, id string) (*model.MaintenanceImage, string, error) {
	if f.img == nil || f.img.ID != id {
		return nil, "", nil
	}
	return f.img, f.owner, nil
}

func (f *fakeImageRepo) Delete(_ context.Context, _, _ string) error {
	f.deleteCalls++
	return f.deleteErr
}

type fakeCouponRepo struct {
	coupon      *model.Coupon
	getErr      error
	redeemErr   error
	redeemCalls int
	redeemedEnd time.Time
}

func (f *fakeCouponRepo) GetByCode(_ context.Context, code string) (*model.Coupon, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.coupon == nil || f.coupon.Code != code {
		return nil, nil
	}
	return f.coupon, nil
}

func (f *fakeCouponRepo) Redeem(_ context.Context, _, _ string, newEnd time.Time) error {
	if f.redeemErr != nil {
		return f.redeemErr
	}
	f.redeemCalls++
	f.redeemedEnd = newEnd
	return nil
}

type fakeStore struct {
	putLocator string
	putErr     error
	putCalls   int
	deleted    []string
	deleteErr  error
}

func (f *fakeStore) Put(_ context.Context, _ string, _ []byte, _ string) (string, error) {
	f.putCalls++
	if f.putErr != nil {
		return "", f.putErr
	}
	return f.putLocator, nil
}

func (f *fakeStore) Delete(_ context.Context, locator string) error {
	f.deleted = append(f.deleted, locator)
	return f.deleteErr
}

// fakeQuota allows everything unless an action is explicitly denied.
type fakeQuota struct {
	deny map[QuotaAction]bool
	err  error
}

func (f *fakeQuota) CheckLimits(_ context.Context, _ *model.User, action QuotaAction, _ int) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return !f.deny[action], nil
}

func (f *fakeQuota) Usage(_ context.Context, _ *model.User) (*UsageSummary, error) {
	return nil, errors.New("not implemented")
}
