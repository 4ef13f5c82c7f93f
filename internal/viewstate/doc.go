// Package viewstate is the view-state synchronizer shared by every portal
// facade.
//
// A Collection caches the last successful list fetch of one entity type,
// patches it after single-entity writes, and derives a filtered view from a
// debounced query. A Selection loads the detail and history of one entity
// and drops responses that belong to an older selection. Readers subscribe
// for a synchronous callback after every committed change and only ever see
// copies of the state.
package viewstate
