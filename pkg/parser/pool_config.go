package parser

import (
	"github.com/gnana997/extractinator/pkg/util"
)

// getDefaultPoolSize returns the number of parsers kept per grammar.
//
// It must match the batch worker count so that workers never block
// waiting for a parser; both delegate to util.GetOptimalPoolSize.
func getDefaultPoolSize() int {
	return util.GetOptimalPoolSize()
}
