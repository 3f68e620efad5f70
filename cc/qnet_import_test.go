package cc_test

// Blank import triggers cc/qnet's init(), which registers NewValueModelFunc.
// This allows package cc's internal test files to build learned agents
// without directly importing cc/qnet (which would create an import cycle).
import _ "github.com/inference-sim/rltcp/cc/qnet"
