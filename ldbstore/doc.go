// Package ldbstore checkpoints the state of a CFR training run to a
// LevelDB database so that it can be resumed later.
//
// Every info set is kept under its own key, and each checkpoint is
// written as a single atomic batch.
package ldbstore
