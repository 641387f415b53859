package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("MEETSYNC_TEST_MODE") == "" {
			_ = os.Setenv("MEETSYNC_TEST_MODE", "1")
		}
	})
}
