package pdf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// applyFilter applies a single decode filter. DCTDecode and JPXDecode
// streams stay compressed: their consumers want the codec bytes.
func applyFilter(data []byte, filter Name, params Dictionary) ([]byte, error) {
	switch filter {
	case "FlateDecode":
		return flateDecode(data, params)
	case "ASCIIHexDecode":
		return asciiHexDecode(data)
	case "ASCII85Decode":
		return ascii85Decode(data)
	case "LZWDecode":
		return lzwDecode(data, params)
	case "RunLengthDecode":
		return runLengthDecode(data)
	case "DCTDecode", "JPXDecode":
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported filter: %s", filter)
	}
}

// flateEncode compresses data for stream serialization.
func flateEncode(data []byte) []byte {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}

// flateDecode decompresses zlib data and applies any PNG predictor.
func flateDecode(data []byte, params Dictionary) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if predictor, ok := params.GetInt("Predictor"); ok && predictor > 1 {
		return applyPredictor(decoded, params)
	}
	return decoded, nil
}

// applyPredictor undoes the PNG row predictor on decoded data.
func applyPredictor(data []byte, params Dictionary) ([]byte, error) {
	predictor, _ := params.GetInt("Predictor")
	if predictor < 10 {
		// TIFF predictor: not produced by the writers we care about.
		return data, nil
	}

	columns, ok := params.GetInt("Columns")
	if !ok {
		columns = 1
	}
	colors, ok := params.GetInt("Colors")
	if !ok {
		colors = 1
	}
	bits, ok := params.GetInt("BitsPerComponent")
	if !ok {
		bits = 8
	}

	bytesPerPixel := int((colors*bits + 7) / 8)
	rowBytes := int((columns*colors*bits + 7) / 8)
	stride := rowBytes + 1

	if stride == 0 || len(data)%stride != 0 {
		return data, nil
	}

	rows := len(data) / stride
	result := make([]byte, rows*rowBytes)
	prevRow := make([]byte, rowBytes)

	for row := 0; row < rows; row++ {
		src := row * stride
		dst := row * rowBytes
		filterType := data[src]
		rowData := data[src+1 : src+stride]

		switch filterType {
		case 0:
			copy(result[dst:], rowData)
		case 1: // Sub
			for i := 0; i < rowBytes; i++ {
				left := byte(0)
				if i >= bytesPerPixel {
					left = result[dst+i-bytesPerPixel]
				}
				result[dst+i] = rowData[i] + left
			}
		case 2: // Up
			for i := 0; i < rowBytes; i++ {
				result[dst+i] = rowData[i] + prevRow[i]
			}
		case 3: // Average
			for i := 0; i < rowBytes; i++ {
				left := byte(0)
				if i >= bytesPerPixel {
					left = result[dst+i-bytesPerPixel]
				}
				result[dst+i] = rowData[i] + byte((int(left)+int(prevRow[i]))/2)
			}
		case 4: // Paeth
			for i := 0; i < rowBytes; i++ {
				left, upLeft := byte(0), byte(0)
				if i >= bytesPerPixel {
					left = result[dst+i-bytesPerPixel]
					upLeft = prevRow[i-bytesPerPixel]
				}
				result[dst+i] = rowData[i] + paethPredictor(left, prevRow[i], upLeft)
			}
		default:
			copy(result[dst:], rowData)
		}

		copy(prevRow, result[dst:dst+rowBytes])
	}
	return result, nil
}

func paethPredictor(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// asciiHexDecode decodes ASCIIHexDecode data.
func asciiHexDecode(data []byte) ([]byte, error) {
	var result []byte
	var nibble byte
	var hasNibble bool

	for _, b := range data {
		if b == '>' {
			break
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}

		var val byte
		switch {
		case b >= '0' && b <= '9':
			val = b - '0'
		case b >= 'A' && b <= 'F':
			val = b - 'A' + 10
		case b >= 'a' && b <= 'f':
			val = b - 'a' + 10
		default:
			return nil, fmt.Errorf("invalid hex character: %c", b)
		}

		if hasNibble {
			result = append(result, nibble<<4|val)
			hasNibble = false
		} else {
			nibble = val
			hasNibble = true
		}
	}

	if hasNibble {
		result = append(result, nibble<<4)
	}
	return result, nil
}

// ascii85Decode decodes ASCII85Decode data.
func ascii85Decode(data []byte) ([]byte, error) {
	var result []byte
	var tuple uint32
	var count int

	for _, b := range data {
		if b == '~' {
			break
		}
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			continue
		}
		if b == 'z' && count == 0 {
			result = append(result, 0, 0, 0, 0)
			continue
		}
		if b < '!' || b > 'u' {
			return nil, fmt.Errorf("invalid ASCII85 character: %c", b)
		}

		tuple = tuple*85 + uint32(b-'!')
		count++
		if count == 5 {
			result = append(result, byte(tuple>>24), byte(tuple>>16), byte(tuple>>8), byte(tuple))
			tuple = 0
			count = 0
		}
	}

	if count > 0 {
		for i := count; i < 5; i++ {
			tuple = tuple*85 + 84
		}
		for i := 0; i < count-1; i++ {
			result = append(result, byte(tuple>>(24-i*8)))
		}
	}
	return result, nil
}

// lzwDecode decodes LZWDecode data.
func lzwDecode(data []byte, params Dictionary) ([]byte, error) {
	earlyChange := 1
	if ec, ok := params.GetInt("EarlyChange"); ok {
		earlyChange = int(ec)
	}
	return lzwDecompress(data, earlyChange)
}

func lzwDecompress(data []byte, earlyChange int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	const (
		clearCode = 256
		eodCode   = 257
	)

	dict := make([][]byte, 4096)
	for i := 0; i < 256; i++ {
		dict[i] = []byte{byte(i)}
	}

	nextCode := 258
	codeSize := 9

	var result []byte
	var prevEntry []byte
	bitPos := 0

	readCode := func() int {
		if bitPos+codeSize > len(data)*8 {
			return eodCode
		}
		code := 0
		for i := 0; i < codeSize; i++ {
			byteIdx := (bitPos + i) / 8
			bitIdx := 7 - (bitPos+i)%8
			if data[byteIdx]&(1<<bitIdx) != 0 {
				code |= 1 << (codeSize - 1 - i)
			}
		}
		bitPos += codeSize
		return code
	}

	for {
		code := readCode()
		if code == eodCode {
			break
		}
		if code == clearCode {
			nextCode = 258
			codeSize = 9
			prevEntry = nil
			continue
		}

		var entry []byte
		if code < nextCode && dict[code] != nil {
			entry = dict[code]
		} else if code == nextCode && prevEntry != nil {
			entry = append(append([]byte{}, prevEntry...), prevEntry[0])
		} else {
			return nil, fmt.Errorf("invalid LZW code: %d", code)
		}

		result = append(result, entry...)

		if prevEntry != nil && nextCode < 4096 {
			dict[nextCode] = append(append([]byte{}, prevEntry...), entry[0])
			nextCode++

			threshold := 1 << codeSize
			if earlyChange == 1 {
				threshold--
			}
			if nextCode > threshold && codeSize < 12 {
				codeSize++
			}
		}
		prevEntry = entry
	}
	return result, nil
}

// runLengthDecode decodes RunLengthDecode data.
func runLengthDecode(data []byte) ([]byte, error) {
	var result []byte
	for i := 0; i < len(data); {
		length := int(data[i])
		i++

		if length == 128 {
			break
		}
		if length < 128 {
			n := length + 1
			if i+n > len(data) {
				return nil, fmt.Errorf("unexpected end of data")
			}
			result = append(result, data[i:i+n]...)
			i += n
		} else {
			if i >= len(data) {
				return nil, fmt.Errorf("unexpected end of data")
			}
			n := 257 - length
			b := data[i]
			i++
			for j := 0; j < n; j++ {
				result = append(result, b)
			}
		}
	}
	return result, nil
}
