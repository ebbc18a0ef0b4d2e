package grammar

// Generates reports whether w derives word, using the CYK table extended with
// nullable variables: A -> B C also spans a range derived by C alone when B
// is nullable, and symmetrically.
func (w *WeakCNF) Generates(word []string) bool {
	n := len(word)
	if n == 0 {
		return w.Nullable[w.Start]
	}

	// table[i][l-1] holds the variables deriving word[i:i+l].
	table := make([][]map[Variable]bool, n)
	for i := range table {
		table[i] = make([]map[Variable]bool, n-i)
	}
	for l := 1; l <= n; l++ {
		for i := 0; i+l <= n; i++ {
			cell := make(map[Variable]bool)
			if l == 1 {
				for _, r := range w.Terminals {
					if r.Terminal == word[i] {
						cell[r.Head] = true
					}
				}
			}
			for k := 1; k < l; k++ {
				left, right := table[i][k-1], table[i+k][l-k-1]
				for _, r := range w.Binaries {
					if left[r.Left] && right[r.Right] {
						cell[r.Head] = true
					}
				}
			}
			for changed := true; changed; {
				changed = false
				for _, r := range w.Binaries {
					if cell[r.Head] {
						continue
					}
					if (w.Nullable[r.Left] && cell[r.Right]) || (cell[r.Left] && w.Nullable[r.Right]) {
						cell[r.Head] = true
						changed = true
					}
				}
			}
			table[i][l-1] = cell
		}
	}
	return table[0][n-1][w.Start]
}
