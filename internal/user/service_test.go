package user

import (
	"errors"
	"fmt"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/skill-matrix/internal"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
	"github.com/frahmantamala/skill-matrix/pkg/logger"
)

func TestUser(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "User Module Suite")
}

type mockUserRepository struct {
	users     map[string]*userdm.User
	nextID    int
	failWith  error
	deletedID string
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{users: map[string]*userdm.User{}, nextID: 1}
}

func (m *mockUserRepository) addUser(u *userdm.User) *userdm.User {
	if u.ID == "" {
		u.ID = fmt.Sprintf("u-%d", m.nextID)
		m.nextID++
	}
	m.users[u.ID] = u
	return u
}

func (m *mockUserRepository) Create(u *userdm.User) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.addUser(u)
	return nil
}

func (m *mockUserRepository) GetByID(id string) (*userdm.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("record not found")
}

func (m *mockUserRepository) GetByIDWithRelations(id string) (*userdm.User, error) {
	return m.GetByID(id)
}

func (m *mockUserRepository) GetByEmployeeCode(code string) (*userdm.User, error) {
	for _, u := range m.users {
		if u.EmployeeCode == code {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockUserRepository) GetByEmail(email string) (*userdm.User, error) {
	for _, u := range m.users {
		if u.OfficialEmail == email {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *mockUserRepository) List(q ListUsersQuery) ([]*userdm.User, int64, error) {
	var out []*userdm.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (m *mockUserRepository) Update(u *userdm.User) error {
	m.users[u.ID] = u
	return nil
}

func (m *mockUserRepository) UpdateFields(id string, fields map[string]interface{}) error {
	u, ok := m.users[id]
	if !ok {
		return errors.New("record not found")
	}
	if v, present := fields["reporting_manager_id"]; present {
		u.ReportingManagerID = toStringPtr(v)
	}
	if v, present := fields["functional_manager_id"]; present {
		u.FunctionalManagerID = toStringPtr(v)
	}
	if v, present := fields["is_active"]; present {
		u.IsActive = v.(bool)
	}
	return nil
}

func toStringPtr(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := v.(string)
	return &s
}

func (m *mockUserRepository) SoftDelete(id string) error {
	m.deletedID = id
	delete(m.users, id)
	return nil
}

func (m *mockUserRepository) GetTeamMembers(managerID string) ([]*userdm.User, error) {
	var out []*userdm.User
	for _, u := range m.users {
		if !u.IsActive {
			continue
		}
		if (u.ReportingManagerID != nil && *u.ReportingManagerID == managerID) ||
			(u.FunctionalManagerID != nil && *u.FunctionalManagerID == managerID) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) GetManagerIDs(id string) (*string, *string, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, nil, errors.New("record not found")
	}
	return u.ReportingManagerID, u.FunctionalManagerID, nil
}

var _ = ginkgo.Describe("UserService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
	)

	security := internal.SecurityConfig{BCryptCost: bcrypt.MinCost}

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		service = NewService(logger.LoggerWrapper(), mockRepo, security)
	})

	ginkgo.Describe("CreateUser", func() {
		ginkgo.It("should create an active employee with a hashed password", func() {
			view, err := service.CreateUser(CreateUserDTO{
				EmployeeCode:  "EMP100",
				Password:      "secret-password",
				EmployeeName:  "Ravi Kumar",
				OfficialEmail: "ravi@example.com",
				Department:    "Engineering",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.IsActive).To(gomega.BeTrue())
			gomega.Expect(view.Role).To(gomega.Equal(userdm.RoleEmployee))

			stored, _ := mockRepo.GetByEmployeeCode("EMP100")
			gomega.Expect(stored.PasswordHash).ToNot(gomega.Equal("secret-password"))
			compareErr := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret-password"))
			gomega.Expect(compareErr).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("should reject a duplicate employee code", func() {
			mockRepo.addUser(&userdm.User{EmployeeCode: "EMP100", OfficialEmail: "other@example.com"})

			_, err := service.CreateUser(CreateUserDTO{
				EmployeeCode:  "EMP100",
				Password:      "secret-password",
				EmployeeName:  "Ravi Kumar",
				OfficialEmail: "ravi@example.com",
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateUser))
		})

		ginkgo.It("should reject a duplicate official email", func() {
			mockRepo.addUser(&userdm.User{EmployeeCode: "EMP999", OfficialEmail: "ravi@example.com"})

			_, err := service.CreateUser(CreateUserDTO{
				EmployeeCode:  "EMP100",
				Password:      "secret-password",
				EmployeeName:  "Ravi Kumar",
				OfficialEmail: "ravi@example.com",
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrDuplicateUser))
		})

		ginkgo.It("should reject an unknown reporting manager", func() {
			ghost := "no-such-id"
			_, err := service.CreateUser(CreateUserDTO{
				EmployeeCode:       "EMP100",
				Password:           "secret-password",
				EmployeeName:       "Ravi Kumar",
				OfficialEmail:      "ravi@example.com",
				ReportingManagerID: &ghost,
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrManagerNotFound))
		})
	})

	ginkgo.Describe("UpdateHierarchy", func() {
		var alice, bob, carol *userdm.User

		ginkgo.BeforeEach(func() {
			alice = mockRepo.addUser(&userdm.User{ID: "alice", EmployeeName: "Alice", IsActive: true})
			bob = mockRepo.addUser(&userdm.User{ID: "bob", EmployeeName: "Bob", IsActive: true})
			carol = mockRepo.addUser(&userdm.User{ID: "carol", EmployeeName: "Carol", IsActive: true})
		})

		ginkgo.It("should assign a reporting manager", func() {
			view, err := service.UpdateHierarchy(bob.ID, UpdateHierarchyDTO{
				ManagerID: &alice.ID,
				Kind:      HierarchyKindReporting,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*view.ReportingManagerID).To(gomega.Equal("alice"))
		})

		ginkgo.It("should clear a manager edge when managerId is null", func() {
			bob.ReportingManagerID = &alice.ID

			view, err := service.UpdateHierarchy(bob.ID, UpdateHierarchyDTO{
				ManagerID: nil,
				Kind:      HierarchyKindReporting,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(view.ReportingManagerID).To(gomega.BeNil())
		})

		ginkgo.It("should reject self-management", func() {
			_, err := service.UpdateHierarchy(bob.ID, UpdateHierarchyDTO{
				ManagerID: &bob.ID,
				Kind:      HierarchyKindReporting,
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrManagerCycle))
		})

		ginkgo.It("should reject a direct two-node cycle", func() {
			bob.ReportingManagerID = &alice.ID

			_, err := service.UpdateHierarchy(alice.ID, UpdateHierarchyDTO{
				ManagerID: &bob.ID,
				Kind:      HierarchyKindReporting,
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrManagerCycle))
		})

		ginkgo.It("should reject a transitive cycle", func() {
			// carol -> bob -> alice; assigning carol as alice's manager closes the loop
			bob.ReportingManagerID = &alice.ID
			carol.ReportingManagerID = &bob.ID

			_, err := service.UpdateHierarchy(alice.ID, UpdateHierarchyDTO{
				ManagerID: &carol.ID,
				Kind:      HierarchyKindReporting,
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrManagerCycle))
		})

		ginkgo.It("should allow the same manager on the functional edge", func() {
			bob.ReportingManagerID = &alice.ID

			view, err := service.UpdateHierarchy(bob.ID, UpdateHierarchyDTO{
				ManagerID: &alice.ID,
				Kind:      HierarchyKindFunctional,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(*view.FunctionalManagerID).To(gomega.Equal("alice"))
		})

		ginkgo.It("should reject an unknown manager", func() {
			ghost := "no-such-id"
			_, err := service.UpdateHierarchy(bob.ID, UpdateHierarchyDTO{
				ManagerID: &ghost,
				Kind:      HierarchyKindReporting,
			})

			gomega.Expect(err).To(gomega.Equal(internal.ErrManagerNotFound))
		})
	})

	ginkgo.Describe("GetTeam", func() {
		ginkgo.It("should include members on either manager edge, once each", func() {
			boss := mockRepo.addUser(&userdm.User{ID: "boss", IsActive: true})
			mockRepo.addUser(&userdm.User{ID: "r1", IsActive: true, ReportingManagerID: &boss.ID})
			mockRepo.addUser(&userdm.User{ID: "f1", IsActive: true, FunctionalManagerID: &boss.ID})
			mockRepo.addUser(&userdm.User{ID: "inactive", IsActive: false, ReportingManagerID: &boss.ID})
			mockRepo.addUser(&userdm.User{ID: "stranger", IsActive: true})

			views, err := service.GetTeam(boss.ID)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(views).To(gomega.HaveLen(2))
		})
	})

	ginkgo.Describe("DeleteUser", func() {
		ginkgo.It("should soft delete an existing user", func() {
			u := mockRepo.addUser(&userdm.User{ID: "victim", IsActive: true})

			gomega.Expect(service.DeleteUser(u.ID)).To(gomega.Succeed())
			gomega.Expect(mockRepo.deletedID).To(gomega.Equal("victim"))
		})

		ginkgo.It("should return not found for a missing user", func() {
			err := service.DeleteUser("ghost")

			gomega.Expect(err).To(gomega.Equal(internal.ErrUserNotFound))
		})
	})
})
