// Package guard forces test mode for any package that imports it in
// its tests, before the runtime can start real side effects.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("ATLAS_TEST_MODE") == "" {
			_ = os.Setenv("ATLAS_TEST_MODE", "1")
		}
	})
}
