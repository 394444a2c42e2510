package contract

// loadObject reads and decodes key. found is false (and err nil) when nothing is stored.
func loadObject[T any](st State, key string, decode func([]byte) (T, error)) (obj T, found bool, err error) {
	ptr, err := st.Get(key)
	if err != nil {
		return obj, false, internal("read state", err)
	}
	if ptr == nil || *ptr == "" {
		return obj, false, nil
	}
	obj, err = decode([]byte(*ptr))
	if err != nil {
		return obj, false, internal("decode state", err)
	}
	return obj, true, nil
}

// saveObject writes an encoded blob.
func saveObject(st State, key string, data []byte) error {
	if err := st.Set(key, string(data)); err != nil {
		return internal("write state", err)
	}
	return nil
}
