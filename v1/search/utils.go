package search

import (
	qdrant "github.com/qdrant/go-client/qdrant"
)

func derefUint64(v *uint64) uint64 {
	if v == nil {
		return 0
	}
	return *v
}

// vectorDetails digs the vector size and distance metric out of the
// engine's nested collection info. Missing or unexpected shapes yield
// zero values rather than panics.
func vectorDetails(info *qdrant.CollectionInfo) (uint64, string) {
	if info == nil ||
		info.Config == nil ||
		info.Config.Params == nil ||
		info.Config.Params.VectorsConfig == nil ||
		info.Config.Params.VectorsConfig.Config == nil {
		return 0, ""
	}

	if cfg, ok := info.Config.Params.VectorsConfig.Config.(*qdrant.VectorsConfig_Params); ok {
		return cfg.Params.Size, cfg.Params.Distance.String()
	}
	return 0, ""
}
