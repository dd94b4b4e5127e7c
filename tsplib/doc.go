// Package tsplib loads a TSPLIB-format instance file into a
// datastore.DataStore. Only the subset of the format needed by this
// solver is supported: NAME/COMMENT/TYPE/DIMENSION/EDGE_WEIGHT_TYPE
// headers, a NODE_COORD_SECTION of "id x y" lines, and EUC_2D, GEO, and
// ATT edge-weight types. Any other section (EDGE_WEIGHT_SECTION,
// DISPLAY_DATA_SECTION, ...) is recognized and skipped rather than
// rejected, so files with extra sections this solver doesn't need still
// load.
package tsplib
