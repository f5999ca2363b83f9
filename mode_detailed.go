//go:build parley_detailed

package parley

const defaultMode = ModeDetailed
