//go:build !race

package sqlauth

func passwordHashCost() int {
	return 14
}
