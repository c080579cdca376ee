package model

// AsFile extracts a FileValue from an answer value. Decoded JSON objects are
// accepted as long as they carry a size or a name.
func AsFile(value any) (FileValue, bool) {
	switch v := value.(type) {
	case FileValue:
		return v, true
	case *FileValue:
		if v == nil {
			return FileValue{}, false
		}
		return *v, true
	case map[string]any:
		var file FileValue
		name, hasName := v["name"].(string)
		file.Name = name
		file.Type, _ = v["type"].(string)
		file.Data, _ = v["data"].(string)
		size, hasSize := toFloat(v["size"])
		if hasSize {
			file.Size = int64(size)
		}
		if !hasName && !hasSize {
			return FileValue{}, false
		}
		return file, true
	}
	return FileValue{}, false
}
