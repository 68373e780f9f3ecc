package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekorate/cli/internal/kubernetes"
)

func TestRegistry_Order(t *testing.T) {
	var names []string
	for _, f := range Registry(kubernetes.ClientOptions{}).Factories() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"docker", "s2i"}, names)
}
