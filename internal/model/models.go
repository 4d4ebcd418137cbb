package model

// All lists every model managed by AutoMigrate
func All() []interface{} {
	return []interface{}{&User{}, &Theater{}, &Membership{}, &ActiveTheater{}, &Invite{}, &Event{}}
}
