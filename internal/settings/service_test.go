package settings

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/frahmantamala/skill-matrix/internal"
	cfdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/customfield"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
	"github.com/frahmantamala/skill-matrix/internal/core/events"
	"github.com/frahmantamala/skill-matrix/pkg/logger"
)

func TestSettings(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Settings Module Suite")
}

type mockSettingsRepository struct {
	fields        map[string]*cfdm.CustomField
	users         map[string]*userdm.User
	nextID        int
	deactivateErr error
}

func newMockSettingsRepository() *mockSettingsRepository {
	return &mockSettingsRepository{
		fields: map[string]*cfdm.CustomField{},
		users:  map[string]*userdm.User{},
		nextID: 1,
	}
}

func (m *mockSettingsRepository) CreateField(f *cfdm.CustomField) error {
	if f.ID == "" {
		f.ID = fmt.Sprintf("field-%d", m.nextID)
		m.nextID++
	}
	m.fields[f.ID] = f
	return nil
}

func (m *mockSettingsRepository) GetFieldByID(id string) (*cfdm.CustomField, error) {
	if f, ok := m.fields[id]; ok {
		return f, nil
	}
	return nil, errors.New("record not found")
}

func (m *mockSettingsRepository) GetFieldByName(name string) (*cfdm.CustomField, error) {
	for _, f := range m.fields {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockSettingsRepository) ListFields() ([]*cfdm.CustomField, error) {
	var out []*cfdm.CustomField
	for _, f := range m.fields {
		out = append(out, f)
	}
	return out, nil
}

func (m *mockSettingsRepository) UpdateField(f *cfdm.CustomField) error {
	m.fields[f.ID] = f
	return nil
}

func (m *mockSettingsRepository) DeleteField(id string) error {
	delete(m.fields, id)
	return nil
}

func (m *mockSettingsRepository) GetUserByID(id string) (*userdm.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}

func (m *mockSettingsRepository) SearchUsers(q SearchEmployeesQuery) ([]*userdm.User, int64, error) {
	var out []*userdm.User
	for _, u := range m.users {
		if q.IsActive != nil && u.IsActive != *q.IsActive {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockSettingsRepository) ListInactiveUsers() ([]*userdm.User, error) {
	var out []*userdm.User
	for _, u := range m.users {
		if !u.IsActive {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockSettingsRepository) SaveUser(u *userdm.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockSettingsRepository) DeactivateAll(users []*userdm.User) error {
	if m.deactivateErr != nil {
		return m.deactivateErr
	}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return nil
}

func (m *mockSettingsRepository) GetManagerIDs(id string) (*string, *string, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil, errors.New("record not found")
	}
	return u.ReportingManagerID, u.FunctionalManagerID, nil
}

type capturingPublisher struct {
	published []events.Event
}

func (p *capturingPublisher) Publish(ctx context.Context, event events.Event) {
	p.published = append(p.published, event)
}

var _ = ginkgo.Describe("SettingsService", func() {
	var (
		service  *Service
		mockRepo *mockSettingsRepository
		bus      *capturingPublisher
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockSettingsRepository()
		bus = &capturingPublisher{}
		service = NewService(logger.LoggerWrapper(), mockRepo, bus)
	})

	ginkgo.Describe("CreateField", func() {
		ginkgo.It("should create a text field visible to all by default", func() {
			f, err := service.CreateField(CreateFieldDTO{Name: "T-shirt size", Type: "text"})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(f.Visibility).To(gomega.Equal(cfdm.VisibilityAll))
		})

		ginkgo.It("should reject a duplicate field name", func() {
			_, err := service.CreateField(CreateFieldDTO{Name: "T-shirt size", Type: "text"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.CreateField(CreateFieldDTO{Name: "T-shirt size", Type: "number"})

			gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateField))
		})

		ginkgo.It("should reject a rename onto a taken name", func() {
			first, err := service.CreateField(CreateFieldDTO{Name: "T-shirt size", Type: "text"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = service.CreateField(CreateFieldDTO{Name: "Office", Type: "text"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			taken := "Office"
			_, err = service.UpdateField(first.ID, UpdateFieldDTO{Name: &taken})

			gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateField))
		})

		ginkgo.It("should require options for select fields", func() {
			_, err := service.CreateField(CreateFieldDTO{Name: "Office", Type: "select"})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})
	})

	ginkgo.Describe("MoveEmployee", func() {
		var emp, oldMgr, newMgr *userdm.User

		ginkgo.BeforeEach(func() {
			oldMgr = &userdm.User{ID: "old-mgr", IsActive: true}
			newMgr = &userdm.User{ID: "new-mgr", IsActive: true}
			emp = &userdm.User{
				ID:                 "emp-1",
				EmployeeName:       "Asha Rao",
				Department:         "Support",
				IsActive:           true,
				ReportingManagerID: &oldMgr.ID,
			}
			mockRepo.users[oldMgr.ID] = oldMgr
			mockRepo.users[newMgr.ID] = newMgr
			mockRepo.users[emp.ID] = emp
		})

		ginkgo.It("should change manager and department and append history", func() {
			dept := "Engineering"
			view, err := service.MoveEmployee(MoveEmployeeDTO{
				EmployeeID:    emp.ID,
				NewManagerID:  &newMgr.ID,
				NewDepartment: &dept,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*view.ReportingManagerID).To(gomega.Equal("new-mgr"))
			gomega.Expect(view.Department).To(gomega.Equal("Engineering"))

			stored := mockRepo.users[emp.ID]
			gomega.Expect(stored.MovementHistory).To(gomega.HaveLen(1))
			gomega.Expect(stored.MovementHistory[0].PreviousManager).To(gomega.Equal("old-mgr"))
			gomega.Expect(stored.MovementHistory[0].PreviousDepartment).To(gomega.Equal("Support"))
			gomega.Expect(stored.MovementHistory[0].NewManager).To(gomega.Equal("new-mgr"))
		})

		ginkgo.It("should keep earlier history entries on later moves", func() {
			dept := "Engineering"
			_, err := service.MoveEmployee(MoveEmployeeDTO{EmployeeID: emp.ID, NewDepartment: &dept})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			dept2 := "Platform"
			_, err = service.MoveEmployee(MoveEmployeeDTO{EmployeeID: emp.ID, NewDepartment: &dept2})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(mockRepo.users[emp.ID].MovementHistory).To(gomega.HaveLen(2))
		})

		ginkgo.It("should reject a move that creates a manager cycle", func() {
			// newMgr reports to emp; moving emp under newMgr closes the loop
			newMgr.ReportingManagerID = &emp.ID

			_, err := service.MoveEmployee(MoveEmployeeDTO{
				EmployeeID:   emp.ID,
				NewManagerID: &newMgr.ID,
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrManagerCycle))
		})
	})

	ginkgo.Describe("BulkMove", func() {
		var mgr *userdm.User

		ginkgo.BeforeEach(func() {
			mgr = &userdm.User{ID: "mgr-1", IsActive: true}
			mockRepo.users[mgr.ID] = mgr
			mockRepo.users["a"] = &userdm.User{ID: "a", Department: "Support", IsActive: true}
			mockRepo.users["b"] = &userdm.User{ID: "b", Department: "Support", IsActive: true}
		})

		ginkgo.It("should move every listed employee and append history", func() {
			dept := "Engineering"
			views, err := service.BulkMove(BulkMoveDTO{
				EmployeeIDs:   []string{"a", "b"},
				NewManagerID:  &mgr.ID,
				NewDepartment: &dept,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(views).To(gomega.HaveLen(2))
			for _, id := range []string{"a", "b"} {
				stored := mockRepo.users[id]
				gomega.Expect(*stored.ReportingManagerID).To(gomega.Equal("mgr-1"))
				gomega.Expect(stored.Department).To(gomega.Equal("Engineering"))
				gomega.Expect(stored.MovementHistory).To(gomega.HaveLen(1))
				gomega.Expect(stored.MovementHistory[0].PreviousDepartment).To(gomega.Equal("Support"))
			}
		})

		ginkgo.It("should abort the whole batch when any id is unknown", func() {
			dept := "Engineering"
			_, err := service.BulkMove(BulkMoveDTO{
				EmployeeIDs:   []string{"a", "ghost"},
				NewDepartment: &dept,
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeUserNotFound))
			gomega.Expect(mockRepo.users["a"].Department).To(gomega.Equal("Support"))
			gomega.Expect(mockRepo.users["a"].MovementHistory).To(gomega.BeEmpty())
		})

		ginkgo.It("should abort when the target manager is unknown", func() {
			ghost := "ghost-mgr"
			_, err := service.BulkMove(BulkMoveDTO{
				EmployeeIDs:  []string{"a"},
				NewManagerID: &ghost,
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrManagerNotFound))
			gomega.Expect(mockRepo.users["a"].ReportingManagerID).To(gomega.BeNil())
		})

		ginkgo.It("should abort when the target manager is one of the moved employees", func() {
			_, err := service.BulkMove(BulkMoveDTO{
				EmployeeIDs:  []string{"a", "b"},
				NewManagerID: &mockRepo.users["b"].ID,
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrManagerCycle))
			gomega.Expect(mockRepo.users["a"].ReportingManagerID).To(gomega.BeNil())
		})
	})

	ginkgo.Describe("DeactivateEmployee", func() {
		var emp *userdm.User

		ginkgo.BeforeEach(func() {
			mgr := "mgr-1"
			fmgr := "mgr-2"
			emp = &userdm.User{
				ID:                  "emp-1",
				EmployeeName:        "Asha Rao",
				IsActive:            true,
				ReportingManagerID:  &mgr,
				FunctionalManagerID: &fmgr,
			}
			mockRepo.users[emp.ID] = emp
		})

		ginkgo.It("should flip the flag, record history and publish the event", func() {
			err := service.DeactivateEmployee(context.Background(), emp.ID, "admin-1", DeactivateEmployeeDTO{
				Reason: "resignation",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.users[emp.ID].IsActive).To(gomega.BeFalse())
			gomega.Expect(mockRepo.users[emp.ID].DeactivationHistory).To(gomega.HaveLen(1))
			gomega.Expect(mockRepo.users[emp.ID].DeactivationHistory[0].DeactivatedBy).To(gomega.Equal("admin-1"))

			gomega.Expect(bus.published).To(gomega.HaveLen(1))
			evt := bus.published[0].(*events.EmployeeDeactivatedEvent)
			gomega.Expect(evt.ReportingManagerID).To(gomega.Equal("mgr-1"))
			gomega.Expect(evt.FunctionalManagerID).To(gomega.Equal("mgr-2"))
		})

		ginkgo.It("should reject an already inactive employee", func() {
			emp.IsActive = false

			err := service.DeactivateEmployee(context.Background(), emp.ID, "admin-1", DeactivateEmployeeDTO{
				Reason: "resignation",
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrAlreadyInactive))
			gomega.Expect(bus.published).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("BulkDeactivate", func() {
		ginkgo.BeforeEach(func() {
			mockRepo.users["a"] = &userdm.User{ID: "a", IsActive: true}
			mockRepo.users["b"] = &userdm.User{ID: "b", IsActive: true}
			mockRepo.users["c"] = &userdm.User{ID: "c", IsActive: false}
		})

		ginkgo.It("should deactivate every listed employee", func() {
			err := service.BulkDeactivate(context.Background(), "admin-1", BulkDeactivateDTO{
				EmployeeIDs: []string{"a", "b"},
				Reason:      "restructure",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.users["a"].IsActive).To(gomega.BeFalse())
			gomega.Expect(mockRepo.users["b"].IsActive).To(gomega.BeFalse())
			gomega.Expect(bus.published).To(gomega.HaveLen(2))
		})

		ginkgo.It("should abort the whole batch when one is already inactive", func() {
			err := service.BulkDeactivate(context.Background(), "admin-1", BulkDeactivateDTO{
				EmployeeIDs: []string{"a", "c"},
				Reason:      "restructure",
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeAlreadyInactive))
			gomega.Expect(mockRepo.users["a"].IsActive).To(gomega.BeTrue())
			gomega.Expect(bus.published).To(gomega.BeEmpty())
		})

		ginkgo.It("should abort when any id is unknown", func() {
			err := service.BulkDeactivate(context.Background(), "admin-1", BulkDeactivateDTO{
				EmployeeIDs: []string{"a", "ghost"},
				Reason:      "restructure",
			})

			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Code).To(gomega.Equal(internal.ErrCodeUserNotFound))
			gomega.Expect(mockRepo.users["a"].IsActive).To(gomega.BeTrue())
		})
	})
})
