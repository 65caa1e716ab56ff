package wcps

// Scalar reductions over a coverage expression. Each renders as a
// function call, e.g. avg($c), and is a valid top-level query body on its
// own since the result is scalar.

// Sum reduces to the sum of all cell values.
func (e Expr) Sum() Expr { return unaryFn(e, "sum") }

// Count reduces to the number of true values in a boolean coverage.
func (e Expr) Count() Expr { return unaryFn(e, "count") }

// Avg reduces to the mean of all cell values.
func (e Expr) Avg() Expr { return unaryFn(e, "avg") }

// Min reduces to the minimum cell value.
func (e Expr) Min() Expr { return unaryFn(e, "min") }

// Max reduces to the maximum cell value.
func (e Expr) Max() Expr { return unaryFn(e, "max") }

// All reduces to true if every cell of a boolean coverage is true.
func (e Expr) All() Expr { return unaryFn(e, "all") }

// Some reduces to true if any cell of a boolean coverage is true.
func (e Expr) Some() Expr { return unaryFn(e, "some") }
