package dto_test

import (
	"strings"
	"testing"

	"family-registry/internal/dto"
	"family-registry/internal/entities"
	"family-registry/pkg/utils"
	"family-registry/pkg/validation"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
)

func TestUpdateFamilyDTO_BlankValuesRejected(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(dto.UpdateFamilyDTO{}), "пустой патч допустим")
	assert.NoError(t, v.Validate(dto.UpdateFamilyDTO{RiskLevel: null.StringFrom(entities.RiskHigh), City: null.StringFrom("")}))

	cases := map[string]dto.UpdateFamilyDTO{
		"risk_level":  {RiskLevel: null.StringFrom("")},
		"family_name": {FamilyName: null.StringFrom("")},
		"district":    {District: null.StringFrom("")},
		"region":      {Region: null.StringFrom("")},
		"address":     {Address: null.StringFrom("")},
		"case_number": {CaseNumber: null.StringFrom("")},
	}
	for field, p := range cases {
		assert.Error(t, v.Validate(p), field)
	}
}

func TestUpdateSupportMeasureDTO_BlankValuesRejected(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(dto.UpdateSupportMeasureDTO{}))
	// пустая дата очищает срок
	assert.NoError(t, v.Validate(dto.UpdateSupportMeasureDTO{EndDate: null.StringFrom("")}))

	assert.Error(t, v.Validate(dto.UpdateSupportMeasureDTO{Category: null.StringFrom("")}))
	assert.Error(t, v.Validate(dto.UpdateSupportMeasureDTO{Title: null.StringFrom("")}))
	assert.Error(t, v.Validate(dto.UpdateSupportMeasureDTO{Status: null.StringFrom("")}))
	assert.NoError(t, v.Validate(dto.UpdateSupportMeasureDTO{Status: null.StringFrom(entities.SupportStatusCompleted)}))
}

func TestUpdateFamilyMemberDTO_BlankValuesRejected(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.Validate(dto.UpdateFamilyMemberDTO{MiddleName: null.StringFrom("")}))
	assert.Error(t, v.Validate(dto.UpdateFamilyMemberDTO{LastName: null.StringFrom("")}))
	assert.Error(t, v.Validate(dto.UpdateFamilyMemberDTO{FirstName: null.StringFrom("")}))
	assert.Error(t, v.Validate(dto.UpdateFamilyMemberDTO{Relation: null.StringFrom("")}))
	assert.Error(t, v.Validate(dto.UpdateFamilyMemberDTO{BirthDate: null.StringFrom("")}))
}

func TestUserDTO_PasswordPolicy(t *testing.T) {
	v := validation.New()
	base := dto.CreateUserDTO{IIN: "123456789013", FullName: "Оператор", Role: "Администратор"}

	short := base
	short.Password = strings.Repeat("x", utils.MinPasswordLength-1)
	assert.Error(t, v.Validate(short))

	ok := base
	ok.Password = strings.Repeat("x", utils.MinPasswordLength)
	assert.NoError(t, v.Validate(ok))

	// пустой пароль в патче означает "не менять"
	assert.NoError(t, v.Validate(dto.UpdateUserDTO{Password: null.StringFrom("")}))
	assert.Error(t, v.Validate(dto.UpdateUserDTO{Password: null.StringFrom("1234567")}))
	assert.Error(t, v.Validate(dto.UpdateUserDTO{FullName: null.StringFrom("")}))
	assert.Error(t, v.Validate(dto.UpdateUserDTO{Role: null.StringFrom("")}))
}
