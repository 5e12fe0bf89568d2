package testscommon

import (
	"sync"
)

// CacherMock -
type CacherMock struct {
	mut     sync.Mutex
	dataMap map[string]interface{}
}

// NewCacherMock -
func NewCacherMock() *CacherMock {
	return &CacherMock{
		dataMap: make(map[string]interface{}),
	}
}

// Clear -
func (cm *CacherMock) Clear() {
	cm.mut.Lock()
	defer cm.mut.Unlock()

	cm.dataMap = make(map[string]interface{})
}

// Put -
func (cm *CacherMock) Put(key []byte, value interface{}, _ int) (evicted bool) {
	cm.mut.Lock()
	defer cm.mut.Unlock()

	cm.dataMap[string(key)] = value

	return false
}

// Get -
func (cm *CacherMock) Get(key []byte) (value interface{}, ok bool) {
	cm.mut.Lock()
	defer cm.mut.Unlock()

	val, ok := cm.dataMap[string(key)]

	return val, ok
}

// Has -
func (cm *CacherMock) Has(key []byte) bool {
	cm.mut.Lock()
	defer cm.mut.Unlock()

	_, ok := cm.dataMap[string(key)]

	return ok
}

// Remove -
func (cm *CacherMock) Remove(key []byte) {
	cm.mut.Lock()
	defer cm.mut.Unlock()

	delete(cm.dataMap, string(key))
}

// Keys -
func (cm *CacherMock) Keys() [][]byte {
	cm.mut.Lock()
	defer cm.mut.Unlock()

	keys := make([][]byte, 0, len(cm.dataMap))
	for k := range cm.dataMap {
		keys = append(keys, []byte(k))
	}

	return keys
}

// Len -
func (cm *CacherMock) Len() int {
	cm.mut.Lock()
	defer cm.mut.Unlock()

	return len(cm.dataMap)
}

// IsInterfaceNil returns true if there is no value under the interface
func (cm *CacherMock) IsInterfaceNil() bool {
	return cm == nil
}
