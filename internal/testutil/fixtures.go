package testutil

import (
	"fmt"

	"github.com/Adham-Aroubite/hr-back/internal/database"
	"github.com/Adham-Aroubite/hr-back/internal/model"
	"github.com/Adham-Aroubite/hr-back/internal/utilities"
)

// NewAccount inserts an account with a profile of the given type, password database.TestSeedPassword.
// Tests that delete or rewrite records use these instead of the shared seeded fixtures.
func NewAccount(db *database.DBinstanceStruct, username string, userType string, companyID *uint) (model.User, model.UserProfile, error) {
	hashed, err := utilities.HashPassword(database.TestSeedPassword)
	if err != nil {
		return model.User{}, model.UserProfile{}, err
	}

	user := model.User{
		Username: username,
		Email:    username + "@fixture.example",
		Password: hashed,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		return model.User{}, model.UserProfile{}, fmt.Errorf("create user %s: %w", username, err)
	}

	profile := model.UserProfile{UserID: user.ID, UserType: userType, CompanyID: companyID}
	if err := db.Create(&profile).Error; err != nil {
		return model.User{}, model.UserProfile{}, fmt.Errorf("create profile %s: %w", username, err)
	}
	return user, profile, nil
}

// NewCompanyWithHR inserts an active company and one HR account attached to it
func NewCompanyWithHR(db *database.DBinstanceStruct, name string) (model.Company, model.User, error) {
	code, err := utilities.RegistrationCode(3)
	if err != nil {
		return model.Company{}, model.User{}, err
	}

	company, err := db.CreateCompany(name, code)
	if err != nil {
		return model.Company{}, model.User{}, err
	}

	hr, _, err := NewAccount(db, "hr_"+code, model.RoleHR, &company.ID)
	if err != nil {
		return model.Company{}, model.User{}, err
	}
	return company, hr, nil
}
