package analysis

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"hex/game"
)

func randomBoard(rng *rand.Rand, size int) *game.Board {
	b := game.NewBoard(size)
	moves := b.LegalMoves()
	rng.Shuffle(len(moves), func(i, j int) { moves[i], moves[j] = moves[j], moves[i] })
	stones := rng.Intn(len(moves) + 1)
	player := game.PlayerA
	for _, m := range moves[:stones] {
		b.Place(m.Row, m.Col, player)
		player = player.Opponent()
	}
	return b
}

func TestChains(t *testing.T) {
	t.Run("winning row for PlayerA", func(t *testing.T) {
		b := game.NewBoard(3)
		b.Place(0, 0, game.PlayerA)
		b.Place(0, 1, game.PlayerA)
		b.Place(0, 2, game.PlayerA)

		chains := Chains(b, game.PlayerA)

		require.Len(t, chains, 1)
		require.Equal(t, TouchesBoth, chains[0].Class)
		require.True(t, chains[0].Winning())
		require.True(t, b.IsConnected(game.PlayerA))
	})

	t.Run("classification by edge contact", func(t *testing.T) {
		b := game.NewBoard(5)
		b.Place(2, 0, game.PlayerA) // start
		b.Place(2, 4, game.PlayerA) // end
		b.Place(0, 2, game.PlayerA) // middle for A

		classes := map[int]Class{}
		for _, c := range Chains(b, game.PlayerA) {
			classes[c.Cells[0]] = c.Class
		}

		require.Equal(t, TouchesStart, classes[2*5+0])
		require.Equal(t, TouchesEnd, classes[2*5+4])
		require.Equal(t, Middle, classes[0*5+2])
	})

	t.Run("orientation differs per player", func(t *testing.T) {
		b := game.NewBoard(5)
		b.Place(0, 2, game.PlayerB)

		chains := Chains(b, game.PlayerB)

		require.Len(t, chains, 1)
		require.Equal(t, TouchesStart, chains[0].Class)
		require.Equal(t, 0, chains[0].Low)
		require.Equal(t, 0, chains[0].High)
	})

	t.Run("chains partition ownership", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 200; i++ {
			b := randomBoard(rng, 2+rng.Intn(6))
			for _, p := range []game.Player{game.PlayerA, game.PlayerB} {
				seen := map[int]int{}
				for _, c := range Chains(b, p) {
					for _, cell := range c.Cells {
						seen[cell]++
						require.Equal(t, p, b.Cell(cell))
					}
				}
				for idx := 0; idx < b.Size()*b.Size(); idx++ {
					if b.Cell(idx) == p {
						require.Equal(t, 1, seen[idx], "Owned cell %d should be in exactly one chain", idx)
					}
				}
				require.Len(t, seen, countOwned(b, p))
			}
		}
	})

	t.Run("winning classification agrees with connectivity", func(t *testing.T) {
		rng := rand.New(rand.NewSource(11))
		for i := 0; i < 300; i++ {
			b := randomBoard(rng, 2+rng.Intn(6))
			for _, p := range []game.Player{game.PlayerA, game.PlayerB} {
				winning := false
				for _, c := range Chains(b, p) {
					winning = winning || c.Winning()
				}
				require.Equal(t, b.IsConnected(p), winning, "Board:\n%s", b)
			}
		}
	})
}

func countOwned(b *game.Board, p game.Player) int {
	count := 0
	for idx := 0; idx < b.Size()*b.Size(); idx++ {
		if b.Cell(idx) == p {
			count++
		}
	}
	return count
}

func TestIndex(t *testing.T) {
	b := game.NewBoard(3)
	b.Place(0, 0, game.PlayerA)
	b.Place(2, 2, game.PlayerA)

	chains := Chains(b, game.PlayerA)
	index := Index(b, chains)

	require.Len(t, chains, 2)
	require.Equal(t, 0, index[0])
	require.Equal(t, 1, index[8])
	require.Equal(t, -1, index[4])
}

func TestChainCache(t *testing.T) {
	t.Run("hits on equal contents of different boards", func(t *testing.T) {
		cache := NewChainCache(0)
		b1 := game.NewBoard(4)
		b1.Place(1, 1, game.PlayerA)
		b2 := game.NewBoard(4)
		b2.Place(1, 1, game.PlayerA)

		first := cache.Chains(b1, game.PlayerA)
		second := cache.Chains(b2, game.PlayerA)

		require.Equal(t, first, second)
		hits, misses := cache.Stats()
		require.Equal(t, int64(1), hits)
		require.Equal(t, int64(1), misses)
	})

	t.Run("keys by player", func(t *testing.T) {
		cache := NewChainCache(0)
		b := game.NewBoard(3)
		b.Place(0, 0, game.PlayerA)

		require.Len(t, cache.Chains(b, game.PlayerA), 1)
		require.Empty(t, cache.Chains(b, game.PlayerB))
	})

	t.Run("mutation changes the key", func(t *testing.T) {
		cache := NewChainCache(0)
		b := game.NewBoard(3)
		b.Place(0, 0, game.PlayerA)
		require.Len(t, cache.Chains(b, game.PlayerA), 1)

		b.Place(2, 2, game.PlayerA)

		require.Len(t, cache.Chains(b, game.PlayerA), 2, "Cache should not return stale chains")
	})

	t.Run("clears when over capacity", func(t *testing.T) {
		cache := NewChainCache(2)
		b := game.NewBoard(3)
		for _, m := range b.LegalMoves()[:3] {
			b.Place(m.Row, m.Col, game.PlayerA)
			cache.Chains(b, game.PlayerA)
		}

		require.Equal(t, 1, cache.Len())
	})

	t.Run("nil cache computes directly", func(t *testing.T) {
		var cache *ChainCache
		b := game.NewBoard(3)
		b.Place(1, 1, game.PlayerB)

		require.Len(t, cache.Chains(b, game.PlayerB), 1)
		require.Zero(t, cache.Len())
		hits, misses := cache.Stats()
		require.Zero(t, hits)
		require.Zero(t, misses)
	})

	t.Run("concurrent lookups", func(t *testing.T) {
		cache := NewChainCache(0)
		b := game.NewBoard(5)
		b.Place(2, 2, game.PlayerA)

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				require.Len(t, cache.Chains(b.Clone(), game.PlayerA), 1)
			}()
		}
		wg.Wait()
	})
}

func TestVirtualDistance(t *testing.T) {
	t.Run("empty board needs N cells", func(t *testing.T) {
		for _, size := range []int{1, 3, 5, 8} {
			b := game.NewBoard(size)
			for _, p := range []game.Player{game.PlayerA, game.PlayerB} {
				dist, ok := VirtualDistance(b, p)
				require.True(t, ok)
				require.Equal(t, size, dist)
			}
		}
	})

	t.Run("stones with a gap shorten the path", func(t *testing.T) {
		b := game.NewBoard(3)
		b.Place(0, 1, game.PlayerB)
		b.Place(2, 1, game.PlayerB)

		dist, ok := VirtualDistance(b, game.PlayerB)
		baseline, _ := VirtualDistance(game.NewBoard(3), game.PlayerB)

		require.False(t, b.IsConnected(game.PlayerB))
		require.True(t, ok)
		require.Equal(t, 1, dist)
		require.Less(t, dist, baseline)
		require.Equal(t, DefaultPathBase-1, PathScore(b, game.PlayerB, DefaultPathBase))
	})

	t.Run("cut board is unreachable", func(t *testing.T) {
		b := game.NewBoard(3)
		// A full PlayerA row blocks PlayerB from top to bottom.
		b.Place(1, 0, game.PlayerA)
		b.Place(1, 1, game.PlayerA)
		b.Place(1, 2, game.PlayerA)

		_, ok := VirtualDistance(b, game.PlayerB)

		require.False(t, ok)
		require.Equal(t, 0, PathScore(b, game.PlayerB, DefaultPathBase))
	})

	t.Run("zero exactly when connected", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		for i := 0; i < 300; i++ {
			b := randomBoard(rng, 2+rng.Intn(6))
			for _, p := range []game.Player{game.PlayerA, game.PlayerB} {
				dist, ok := VirtualDistance(b, p)
				require.Equal(t, b.IsConnected(p), ok && dist == 0, "Board:\n%s", b)
			}
		}
	})

	t.Run("unreachable exactly when opponent connects", func(t *testing.T) {
		// In Hex one side is cut off exactly when the other side is connected,
		// once the board is full; on partial boards a cut implies the
		// opponent has a connection through own stones.
		rng := rand.New(rand.NewSource(5))
		for i := 0; i < 300; i++ {
			b := randomBoard(rng, 2+rng.Intn(6))
			for _, p := range []game.Player{game.PlayerA, game.PlayerB} {
				_, ok := VirtualDistance(b, p)
				require.Equal(t, b.IsConnected(p.Opponent()), !ok, "Board:\n%s", b)
			}
		}
	})
}
