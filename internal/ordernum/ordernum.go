// Package ordernum issues unique customer-facing order numbers.
package ordernum

import (
	"strings"

	"github.com/bwmarrin/snowflake"
)

const prefix = "ECO"

type Generator struct {
	node *snowflake.Node
}

func New(nodeID int64) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &Generator{node: node}, nil
}

// Next returns an order number like "ECO2Q3RZ8K4L0001". Snowflake IDs are
// time-ordered, so numbers sort roughly by creation time.
func (g *Generator) Next() string {
	return prefix + strings.ToUpper(g.node.Generate().Base36())
}
