package pipe80

// BlockStarter is notified before each pipeline block of a script run
// executes. Implement it on an observer when you want per-block visibility,
// for example to log the start of long chained specifications.
//
// index is the block's position in the script, block is the parsed
// pipeline, and inputCount is the number of records the block's source
// stage will produce.
type BlockStarter interface {
	BlockStart(index int, block Pipeline, inputCount int)
}

// BlockStopper is notified after each pipeline block completes.
// outputCount is the number of records the block emitted, which becomes
// the next block's available input.
//
// An observer may implement BlockStarter, BlockStopper, or both; RunScript
// checks each capability independently.
type BlockStopper interface {
	BlockDone(index int, block Pipeline, outputCount int)
}
