package board

// spawnTwoProbability is the chance a spawned tile is a 2; otherwise it is a 4.
const spawnTwoProbability = 0.9

// Spawn describes a tile placed by SpawnRandomTile.
type Spawn struct {
	Index int
	Value int
}

// MoveResult is returned by Move.
type MoveResult struct {
	Changed  bool   // At least one tile slid or merged
	Gained   int    // Score added by merges during this move
	Merges   int    // Number of merges performed
	Spawned  *Spawn // Tile spawned after the move, nil when nothing changed or the board is full
	Terminal bool   // Terminal flag recomputed after the move
}

// Engine owns a single game session: the grid, the score and the terminal
// flag. It is not safe for concurrent use; callers serialize input events.
type Engine struct {
	grid     Grid
	score    int
	terminal bool
	moves    int
	rng      RandomSource
}

// Option configures an Engine.
type Option func(*Engine)

// WithRandom injects the random source used for spawning tiles.
func WithRandom(src RandomSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = src
		}
	}
}

// New creates an engine and resets it, so the board starts with two tiles.
func New(opts ...Option) *Engine {
	e := &Engine{rng: DefaultSource()}
	for _, opt := range opts {
		opt(e)
	}
	e.Reset()
	return e
}

// Reset clears the board and score, then spawns two tiles. It is used both
// at startup and on every restart.
func (e *Engine) Reset() {
	e.grid = Grid{}
	e.score = 0
	e.moves = 0
	e.terminal = false
	e.SpawnRandomTile()
	e.SpawnRandomTile()
}

// Load installs a grid and score, recomputing the terminal flag.
// Intended for replays and tests.
func (e *Engine) Load(grid Grid, score int) {
	e.grid = grid
	e.score = score
	e.moves = 0
	e.terminal = e.IsTerminal()
}

// SpawnRandomTile places a 2 (90%) or a 4 (10%) on a uniformly chosen empty
// cell. It reports false and leaves the board untouched when the board is full.
func (e *Engine) SpawnRandomTile() (Spawn, bool) {
	empty := e.grid.EmptyIndices()
	if len(empty) == 0 {
		return Spawn{}, false
	}

	index := empty[e.rng.Intn(len(empty))]
	value := 2
	if e.rng.Float64() >= spawnTwoProbability {
		value = 4
	}

	e.grid[index] = value
	return Spawn{Index: index, Value: value}, true
}

// Move slides every tile toward dir, merging equal neighbours at most once
// per tile, then spawns a tile if anything changed and recomputes the
// terminal flag. A move that changes nothing leaves board and score intact.
func (e *Engine) Move(dir Direction) MoveResult {
	var res MoveResult
	if !dir.Valid() {
		res.Terminal = e.terminal
		return res
	}

	// Marks cells that already hold a merge result during this move.
	var merged [CellCount]bool

	for _, start := range TraversalOrder(dir) {
		if e.grid[start] == Empty {
			continue
		}

		pos := start
		for {
			next, ok := NextIndex(pos, dir)
			if !ok {
				break
			}

			if e.grid[next] == Empty {
				e.grid[next] = e.grid[pos]
				e.grid[pos] = Empty
				res.Changed = true
				pos = next
				continue
			}

			if e.grid[next] == e.grid[pos] && !merged[next] && !merged[pos] {
				e.grid[next] += e.grid[pos]
				e.grid[pos] = Empty
				e.score += e.grid[next]
				res.Gained += e.grid[next]
				res.Merges++
				merged[next] = true
				res.Changed = true
			}
			break
		}
	}

	if res.Changed {
		e.moves++
		if spawn, ok := e.SpawnRandomTile(); ok {
			res.Spawned = &spawn
		}
	}

	e.terminal = e.IsTerminal()
	res.Terminal = e.terminal
	return res
}

// IsTerminal reports whether the board is full with no adjacent equal pair.
func (e *Engine) IsTerminal() bool {
	return e.grid.Terminal()
}

// Cells returns a copy of the board.
func (e *Engine) Cells() Grid {
	return e.grid
}

// Score returns the accumulated merge score.
func (e *Engine) Score() int {
	return e.score
}

// Terminal returns the terminal flag as of the last Reset, Load or Move.
func (e *Engine) Terminal() bool {
	return e.terminal
}

// MaxTile returns the highest tile on the board.
func (e *Engine) MaxTile() int {
	return e.grid.MaxTile()
}

// Moves returns the number of moves that changed the board since Reset.
func (e *Engine) Moves() int {
	return e.moves
}
