package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	skilldm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/skill"
	userdm "github.com/frahmantamala/skill-matrix/internal/core/datamodel/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB.DB}), &gorm.Config{})
		if err != nil {
			log.Fatalf("failed to open gorm connection: %v", err)
		}

		if clearData {
			fmt.Println("Clearing existing seed data")
			db.Exec("DELETE FROM user_roles")
			db.Exec("DELETE FROM skill_assessments")
			db.Exec("DELETE FROM skills")
			db.Exec("DELETE FROM roles")
			db.Exec("DELETE FROM users")
		}

		roles := []userdm.Role{
			{
				Name:        "admin",
				Description: "full administrator",
				Permissions: userdm.PermissionList{
					userdm.PermissionCreateUser,
					userdm.PermissionUpdateUser,
					userdm.PermissionDeleteUser,
					userdm.PermissionViewUser,
					userdm.PermissionManageRoles,
					userdm.PermissionManageSkill,
					userdm.PermissionViewReports,
				},
			},
			{
				Name:        "manager",
				Description: "team manager",
				Permissions: userdm.PermissionList{
					userdm.PermissionViewUser,
					userdm.PermissionViewReports,
				},
			},
			{
				Name:        "employee",
				Description: "regular employee",
				Permissions: userdm.PermissionList{
					userdm.PermissionViewUser,
				},
			},
		}

		for i := range roles {
			var existing userdm.Role
			err := db.Where("name = ?", roles[i].Name).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := db.Create(&roles[i]).Error; err != nil {
					log.Fatalf("failed to insert role %s: %v", roles[i].Name, err)
				}
				fmt.Println("Seeded role:", roles[i].Name)
				continue
			}
			if err != nil {
				log.Fatalf("failed to look up role %s: %v", roles[i].Name, err)
			}
			roles[i] = existing
		}

		hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)

		adminCode := "EMP0001"
		var existingAdmin userdm.User
		err = db.Where("employee_code = ?", adminCode).First(&existingAdmin).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			adminUser := userdm.User{
				EmployeeCode:  adminCode,
				EmployeeName:  "System Admin",
				OfficialEmail: "admin@skillmatrix.local",
				PasswordHash:  string(hash),
				Role:          userdm.RoleAdmin,
				Department:    "Operations",
				IsActive:      true,
			}
			if err := db.Create(&adminUser).Error; err != nil {
				log.Fatalf("failed to insert admin user: %v", err)
			}
			if err := db.Model(&adminUser).Association("Roles").Append(&roles[0]); err != nil {
				log.Fatalf("failed to grant admin role: %v", err)
			}
			fmt.Println("Seeded admin user:", adminCode)
		} else if err != nil {
			log.Fatalf("failed to look up admin user: %v", err)
		} else {
			fmt.Println("admin user already exists:", adminCode)
		}

		skills := []skilldm.Skill{
			{Name: "Go", Category: "backend", ExpectedLevel: skilldm.LevelIntermediate},
			{Name: "PostgreSQL", Category: "database", ExpectedLevel: skilldm.LevelIntermediate},
			{Name: "Kubernetes", Category: "infrastructure", ExpectedLevel: skilldm.LevelBeginner},
			{Name: "Communication", Category: "soft skills", ExpectedLevel: skilldm.LevelAdvanced},
		}

		for i := range skills {
			var existing skilldm.Skill
			err := db.Where("name = ?", skills[i].Name).First(&existing).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				if err := db.Create(&skills[i]).Error; err != nil {
					log.Fatalf("failed to insert skill %s: %v", skills[i].Name, err)
				}
				fmt.Println("Seeded skill:", skills[i].Name)
				continue
			}
			if err != nil {
				log.Fatalf("failed to look up skill %s: %v", skills[i].Name, err)
			}
		}

		fmt.Println("Seeding complete")
	},
}
