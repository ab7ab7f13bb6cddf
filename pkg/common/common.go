package common

import (
	"os"
	"sync"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var (
	snowflakeNode *snowflake.Node
	nodeOnce      sync.Once
)

// UUIDint64 returns a process-unique snowflake id.
func UUIDint64() int64 {
	nodeOnce.Do(func() {
		var err error
		snowflakeNode, err = snowflake.NewNode(int64(os.Getpid()) % 1024)
		if err != nil {
			// node id 0 is always valid
			snowflakeNode, _ = snowflake.NewNode(0)
		}
	})
	return snowflakeNode.Generate().Int64()
}

// UUID returns the string form of a snowflake id.
func UUID() string {
	UUIDint64()
	return snowflakeNode.Generate().String()
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
