package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is a text[] column on PostgreSQL and the same array literal stored
// as text elsewhere.
type StringList []string

func (l *StringList) Scan(src any) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*l = StringList(arr)
	return nil
}

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return pq.StringArray{}.Value()
	}
	return pq.StringArray(l).Value()
}

func (StringList) GormDataType() string {
	return "text[]"
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}
