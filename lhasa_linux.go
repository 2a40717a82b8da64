//go:build linux && !headless

// lhasa_linux.go - LHA decompression of packed YM files using system liblhasa.

package main

/*
#cgo pkg-config: liblhasa
#include <stdlib.h>
#include <lhasa.h>

// Extracts the first member of an LHA archive into a malloc'd buffer.
static int lha_first_member(const char* path, unsigned char** out, size_t* out_len) {
	int ok = 0;
	LHAReader* reader = NULL;
	LHAInputStream* stream = lha_input_stream_from((char*)path);
	if (stream == NULL) {
		return 0;
	}
	reader = lha_reader_new(stream);
	if (reader == NULL) {
		goto done;
	}

	LHAFileHeader* header = lha_reader_next_file(reader);
	if (header == NULL || header->length == 0) {
		goto done;
	}

	size_t length = (size_t) header->length;
	unsigned char* buffer = (unsigned char*) malloc(length);
	if (buffer == NULL) {
		goto done;
	}
	size_t total = 0;
	while (total < length) {
		size_t n = lha_reader_read(reader, buffer + total, length - total);
		if (n == 0) {
			break;
		}
		total += n;
	}
	if (total == 0) {
		free(buffer);
		goto done;
	}
	*out = buffer;
	*out_len = total;
	ok = 1;

done:
	if (reader != NULL) {
		lha_reader_free(reader);
	}
	lha_input_stream_free(stream);
	return ok;
}
*/
import "C"

import (
	"fmt"
	"os"
	"unsafe"
)

func init() {
	compiledFeatures = append(compiledFeatures, "lha:liblhasa")
}

func DecompressLHAFile(path string) ([]byte, error) {
	cPath := C.CString(path)
	defer C.free(unsafe.Pointer(cPath))

	var out *C.uchar
	var outLen C.size_t
	if C.lha_first_member(cPath, &out, &outLen) == 0 || out == nil {
		return nil, fmt.Errorf("lha decompression failed: %s", path)
	}
	defer C.free(unsafe.Pointer(out))
	return C.GoBytes(unsafe.Pointer(out), C.int(outLen)), nil
}

// DecompressLHAData spools in-memory archives to a temp file for liblhasa.
func DecompressLHAData(data []byte) ([]byte, error) {
	tmp, err := os.CreateTemp("", "psgmeter-*.lha")
	if err != nil {
		return nil, fmt.Errorf("lha temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("lha temp write: %w", err)
	}
	return DecompressLHAFile(tmp.Name())
}
