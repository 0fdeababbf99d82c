package taskgraph

import (
	"sync"

	"github.com/dominikbraun/graph"
	"github.com/samber/lo"

	"github.com/tymbalodeon/course-request-form/internal/rules"
)

type TaskGraph interface {
	AddTask(r rules.Rule) error
	AddDependency(from string, to string) error
	FindTask(id string) rules.Rule
	FindDependencies(id string) []rules.Rule
}

func New() TaskGraph {
	hasher := func(r rules.Rule) string {
		return r.ID()
	}
	return &taskgraph{
		graph: graph.New(hasher, graph.Directed(), graph.Acyclic(), graph.PreventCycles()),
	}
}

type taskgraph struct {
	rw    sync.RWMutex
	graph graph.Graph[string, rules.Rule]
}

// AddTask implements TaskGraph
func (g *taskgraph) AddTask(r rules.Rule) error {
	g.rw.Lock()
	defer g.rw.Unlock()

	return g.graph.AddVertex(r)
}

// AddDependency implements TaskGraph
func (g *taskgraph) AddDependency(from string, to string) error {
	g.rw.Lock()
	defer g.rw.Unlock()

	if _, err := g.graph.Edge(from, to); err == graph.ErrEdgeNotFound {
		return g.graph.AddEdge(from, to)
	}
	return nil
}

// FindTask implements TaskGraph
func (g *taskgraph) FindTask(id string) rules.Rule {
	g.rw.RLock()
	defer g.rw.RUnlock()

	r, err := g.graph.Vertex(id)
	if err != nil {
		return nil
	}
	return r
}

// FindDependencies implements TaskGraph
func (g *taskgraph) FindDependencies(id string) []rules.Rule {
	g.rw.RLock()
	defer g.rw.RUnlock()

	m, err := g.graph.AdjacencyMap()
	if err != nil {
		panic(err)
	}

	return lo.Map(lo.Keys(m[id]), func(key string, i int) rules.Rule {
		r, _ := g.graph.Vertex(key)
		return r
	})
}

var _ TaskGraph = &taskgraph{}
