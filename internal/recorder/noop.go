package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordView(_ *ViewEvent) error          { return nil }
func (n *NoopRecorder) RecordCompare(_ *CompareEvent) error    { return nil }
func (n *NoopRecorder) RecordRefresh(_ *RefreshEvent) error    { return nil }
func (n *NoopRecorder) RecentViews(_ int) ([]ViewEvent, error) { return nil, nil }
func (n *NoopRecorder) Close() error                           { return nil }
