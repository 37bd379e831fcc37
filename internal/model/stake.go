package model

// LockStatus tracks the lifecycle of a stake lock.
type LockStatus string

const (
	LockActive    LockStatus = "ACTIVE"
	LockMatured   LockStatus = "MATURED"
	LockWithdrawn LockStatus = "WITHDRAWN"
)

// StakeLock is a time-locked stake of tokens earning weekly interest.
type StakeLock struct {
	ID              string
	Owner           string
	Principal       float64
	LockYears       int
	WeekCreated     int
	AccruedInterest float64
	Status          LockStatus
}

// MaturityWeek is the first week at which the lock can be withdrawn.
func (l *StakeLock) MaturityWeek() int {
	return l.WeekCreated + l.LockYears*52
}
