package depscan

// SetBeforeScan installs a hook that runs at the start of every shared scan.
func (s *Scanner) SetBeforeScan(fn func(target string)) {
	s.beforeScan = fn
}
