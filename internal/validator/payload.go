package validator

// ensures a serialized constant input blob is under the allowable size for a node input
func ValidateConstantInputSize(dataLen int) bool {
	return dataLen <= 1<<16
}

// ensures a serialized metadata blob is under the allowable size for freeform metadata
func ValidateMetadataSize(dataLen int) bool {
	return dataLen <= 1<<16
}

// ensures a serialized node output blob is under the allowable size for recorded output data
func ValidateOutputDataSize(dataLen int) bool {
	return dataLen <= 1<<20
}
