package pdf417go

// DecodeOptions configures barcode decoding behavior.
type DecodeOptions struct {
	// Observer receives diagnostic events. Nil means NopObserver.
	Observer Observer

	// Parallel decodes the located candidate symbols concurrently.
	Parallel bool

	// MaxParallel bounds the concurrent candidate decodes when Parallel is
	// set. Zero or less means one per CPU.
	MaxParallel int
}

// ObserverOrNop returns the configured observer or NopObserver.
func (o *DecodeOptions) ObserverOrNop() Observer {
	if o == nil || o.Observer == nil {
		return NopObserver
	}
	return o.Observer
}
