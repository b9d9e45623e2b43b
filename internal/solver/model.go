package solver

// Model is a backend-neutral binary/continuous linear program being
// minimized. Columns are added first, then rows referencing them by index;
// backends read the finished model and never mutate it.
type Model struct {
	Name string

	cols []Column
	rows []Row
	hint []float64
}

// VarType distinguishes binary decision columns from non-negative continuous
// columns (deviation variables).
type VarType int

const (
	Binary VarType = iota
	Continuous
)

// Sense is the relation between a row's linear expression and its RHS.
type Sense int

const (
	EQ Sense = iota
	LE
	GE
)

// Column is one decision variable with its objective coefficient.
type Column struct {
	Name string
	Type VarType
	Cost float64
}

// Row is one linear constraint: sum(Coefs[k] * x[Cols[k]]) Sense RHS.
type Row struct {
	Name  string
	Cols  []int
	Coefs []float64
	Sense Sense
	RHS   float64
}

func NewModel(name string) *Model {
	return &Model{Name: name}
}

// AddBinary adds a 0/1 column and returns its index.
func (m *Model) AddBinary(name string) int {
	m.cols = append(m.cols, Column{Name: name, Type: Binary})
	return len(m.cols) - 1
}

// AddContinuous adds a continuous column bounded below by zero and returns
// its index.
func (m *Model) AddContinuous(name string) int {
	m.cols = append(m.cols, Column{Name: name, Type: Continuous})
	return len(m.cols) - 1
}

// AddCost accumulates an objective coefficient onto a column. Calling it
// repeatedly for the same column sums the contributions.
func (m *Model) AddCost(col int, cost float64) {
	m.cols[col].Cost += cost
}

// AddRow appends a constraint. Cols and Coefs must be the same length.
func (m *Model) AddRow(name string, cols []int, coefs []float64, sense Sense, rhs float64) {
	m.rows = append(m.rows, Row{Name: name, Cols: cols, Coefs: coefs, Sense: sense, RHS: rhs})
}

func (m *Model) NumCols() int { return len(m.cols) }

func (m *Model) NumRows() int { return len(m.rows) }

func (m *Model) Col(i int) Column { return m.cols[i] }

func (m *Model) RowAt(i int) Row { return m.rows[i] }

// SetHint records a known feasible integral assignment, one value per
// column. Backends that can seed their search with a starting incumbent use
// it; others ignore it.
func (m *Model) SetHint(values []float64) { m.hint = values }

// Hint returns the recorded starting assignment, or nil.
func (m *Model) Hint() []float64 { return m.hint }

// Costs returns a copy of the objective vector.
func (m *Model) Costs() []float64 {
	c := make([]float64, len(m.cols))
	for i, col := range m.cols {
		c[i] = col.Cost
	}
	return c
}
