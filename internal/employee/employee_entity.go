package employee

import (
	"time"

	"github.com/google/uuid"
)

const EmploymentStatusActive = "active"

type Department struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"type:varchar(120);not null" json:"name"`
	Code string    `gorm:"type:varchar(20)" json:"code"`
}

func (Department) TableName() string { return "departments" }

// Grade carries the salary settings the batch generator copies into a
// payroll baseline. Changing a grade never touches records that were
// already generated.
type Grade struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name  string    `gorm:"type:varchar(60);not null" json:"name"`
	Level int       `gorm:"not null;default:1" json:"level"`

	BaseSalary float64 `gorm:"type:numeric(18,2);not null;default:0" json:"base_salary"`

	TransportAllowance     float64 `gorm:"type:numeric(18,2);not null;default:0" json:"transport_allowance"`
	HousingAllowance       float64 `gorm:"type:numeric(18,2);not null;default:0" json:"housing_allowance"`
	MedicalAllowance       float64 `gorm:"type:numeric(18,2);not null;default:0" json:"medical_allowance"`
	MealsAllowance         float64 `gorm:"type:numeric(18,2);not null;default:0" json:"meals_allowance"`
	CommunicationAllowance float64 `gorm:"type:numeric(18,2);not null;default:0" json:"communication_allowance"`
	OtherAllowance         float64 `gorm:"type:numeric(18,2);not null;default:0" json:"other_allowance"`

	PensionRate        float64 `gorm:"type:numeric(5,2);not null;default:0" json:"pension_rate"`
	OvertimeMultiplier float64 `gorm:"type:numeric(4,2);not null;default:1.5" json:"overtime_multiplier"`
	OvertimeHourlyRate float64 `gorm:"type:numeric(18,2);not null;default:0" json:"overtime_hourly_rate"`

	Currency string `gorm:"type:varchar(3);not null;default:'MWK'" json:"currency"`
}

func (Grade) TableName() string { return "grades" }

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeNumber string    `gorm:"type:varchar(30);uniqueIndex" json:"employee_number"`
	FirstName      string    `gorm:"type:varchar(80);not null" json:"first_name"`
	LastName       string    `gorm:"type:varchar(80);not null" json:"last_name"`

	DepartmentID uuid.UUID   `gorm:"type:uuid;not null" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	GradeID      uuid.UUID   `gorm:"type:uuid;not null" json:"grade_id"`
	Grade        *Grade      `gorm:"foreignKey:GradeID" json:"grade,omitempty"`

	EmploymentStatus string `gorm:"type:varchar(20);not null;default:'active';index" json:"employment_status"`
	IsActive         bool   `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Employee) TableName() string { return "employees" }

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

const OvertimeStatusApproved = "approved"

// OvertimeRecord is the directory's view of approved overtime for a
// payroll month. Only approved rows feed payroll generation.
type OvertimeRecord struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_overtime_month" json:"employee_id"`
	Month      string    `gorm:"type:varchar(7);not null;index:idx_overtime_month" json:"month"`
	Hours      float64   `gorm:"type:numeric(8,2);not null;default:0" json:"hours"`
	HourlyRate float64   `gorm:"type:numeric(18,2);not null;default:0" json:"hourly_rate"`
	Status     string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

func (OvertimeRecord) TableName() string { return "overtime_records" }
