package testscommon

import "time"

// TimeCacherStub -
type TimeCacherStub struct {
	AddCalled    func(key string) error
	UpsertCalled func(key string, span time.Duration) error
	HasCalled    func(key string) bool
	SweepCalled  func()
}

// Add -
func (tcs *TimeCacherStub) Add(key string) error {
	if tcs.AddCalled != nil {
		return tcs.AddCalled(key)
	}

	return nil
}

// Upsert -
func (tcs *TimeCacherStub) Upsert(key string, span time.Duration) error {
	if tcs.UpsertCalled != nil {
		return tcs.UpsertCalled(key, span)
	}

	return nil
}

// Has -
func (tcs *TimeCacherStub) Has(key string) bool {
	if tcs.HasCalled != nil {
		return tcs.HasCalled(key)
	}

	return false
}

// Sweep -
func (tcs *TimeCacherStub) Sweep() {
	if tcs.SweepCalled != nil {
		tcs.SweepCalled()
	}
}

// IsInterfaceNil returns true if there is no value under the interface
func (tcs *TimeCacherStub) IsInterfaceNil() bool {
	return tcs == nil
}
