package runtime

import (
	"container/list"
	"log/slog"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// defaultGuardCacheSize bounds the compiled-guard cache so long preview
// sessions with many authored guards cannot grow memory without limit.
const defaultGuardCacheSize = 256

// guardCache is a small LRU of compiled guard programs keyed by source.
type guardCache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List
	maxSize int
}

type guardEntry struct {
	source  string
	program *vm.Program
}

var compiledGuards = &guardCache{
	entries: make(map[string]*list.Element, defaultGuardCacheSize),
	lru:     list.New(),
	maxSize: defaultGuardCacheSize,
}

func (c *guardCache) get(source string) (*vm.Program, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[source]
	if !ok {
		return nil, false
	}
	c.lru.MoveToFront(el)
	return el.Value.(*guardEntry).program, true
}

func (c *guardCache) put(source string, program *vm.Program) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[source]; ok {
		c.lru.MoveToFront(el)
		el.Value.(*guardEntry).program = program
		return
	}
	el := c.lru.PushFront(&guardEntry{source: source, program: program})
	c.entries[source] = el
	for c.lru.Len() > c.maxSize {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*guardEntry).source)
	}
}

// evalGuard evaluates an authored guard expression against the merged
// variable view. Anything other than a clean boolean-true result (including
// compile and evaluation failures) reads as "not satisfied": the guarded
// action is skipped, never failed.
func evalGuard(source string, env map[string]any) bool {
	program, ok := compiledGuards.get(source)
	if !ok {
		var err error
		program, err = expr.Compile(source, expr.AllowUndefinedVariables())
		if err != nil {
			slog.Warn("[Dispatch] guard failed to compile", "guard", source, "error", err)
			return false
		}
		compiledGuards.put(source, program)
	}

	result, err := vm.Run(program, env)
	if err != nil {
		slog.Warn("[Dispatch] guard failed to evaluate", "guard", source, "error", err)
		return false
	}
	b, ok := result.(bool)
	return ok && b
}
