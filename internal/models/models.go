package models

import "time"

type User struct {
	ID           uint   `gorm:"column:user_id;primaryKey;autoIncrement" json:"userID"`
	Username     string `gorm:"column:user_name;unique;not null"        json:"userName"`
	MobileNumber string `gorm:"column:mobile_number;not null"           json:"mobileNumber"`
	PasswordHash string `gorm:"column:password;not null"                json:"-"`
}

// PasswordReset stores the SHA-256 of an issued reset token, never the raw value.
type PasswordReset struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	UserID    uint      `gorm:"index;not null"`
	TokenHash string    `gorm:"uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	CreatedAt time.Time

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

type EmployeeMaster struct {
	MastCode    uint    `gorm:"column:mast_code;primaryKey;autoIncrement" json:"mastCode"`
	UserID      uint    `gorm:"column:user_id;index;not null"             json:"userID"`
	EmpID       string  `gorm:"column:emp_id;uniqueIndex;not null"        json:"empID"`
	EmpName     string  `gorm:"column:emp_name;not null"                  json:"empName"`
	Designation string  `gorm:"column:designation"                        json:"designation"`
	Department  string  `gorm:"column:department"                         json:"department"`
	JoinedDate  string  `gorm:"column:joined_date"                        json:"joinedDate"`
	Salary      float64 `gorm:"column:salary"                             json:"salary"`

	User *User `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// EmployeeDetail is optional until first populated; MastCode is unique so a
// master has at most one detail row.
type EmployeeDetail struct {
	EmpDetailID  uint   `gorm:"column:emp_detail_id;primaryKey;autoIncrement" json:"empDetailID"`
	MastCode     uint   `gorm:"column:mast_code;uniqueIndex;not null"          json:"mastCode"`
	AddressLine1 string `gorm:"column:address_line1"                           json:"addressLine1"`
	AddressLine2 string `gorm:"column:address_line2"                           json:"addressLine2"`
	City         string `gorm:"column:city"                                    json:"city"`
	State        string `gorm:"column:state"                                   json:"state"`
	Country      string `gorm:"column:country"                                 json:"country"`

	Master *EmployeeMaster `gorm:"foreignKey:MastCode;references:MastCode;constraint:OnDelete:CASCADE" json:"-"`
}

// EmployeeRecord is a master row left-joined with its detail row. Detail
// columns are nil when no detail row exists.
type EmployeeRecord struct {
	MastCode    uint    `json:"mastCode"`
	UserID      uint    `json:"userID"`
	EmpID       string  `json:"empID"`
	EmpName     string  `json:"empName"`
	Designation string  `json:"designation"`
	Department  string  `json:"department"`
	JoinedDate  string  `json:"joinedDate"`
	Salary      float64 `json:"salary"`

	EmpDetailID  *uint   `json:"empDetailID"`
	AddressLine1 *string `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Country      *string `json:"country"`
}

// All returns every model in migration order.
func All() []any {
	return []any{&User{}, &PasswordReset{}, &EmployeeMaster{}, &EmployeeDetail{}}
}
