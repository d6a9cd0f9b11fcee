package pubkey

import "strings"

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// Base58Encode encodes input using the Bitcoin base58 alphabet.
func Base58Encode(input []byte) string {
	if len(input) == 0 {
		return ""
	}

	zeros := 0
	for zeros < len(input) && input[zeros] == 0 {
		zeros++
	}

	if zeros == len(input) {
		return strings.Repeat("1", zeros)
	}

	digits := []int{0}
	for index := zeros; index < len(input); index++ {
		carry := int(input[index])
		for digitIndex := 0; digitIndex < len(digits); digitIndex++ {
			value := (digits[digitIndex] << 8) + carry
			digits[digitIndex] = value % 58
			carry = value / 58
		}
		for carry > 0 {
			digits = append(digits, carry%58)
			carry /= 58
		}
	}

	var builder strings.Builder
	builder.Grow(zeros + len(digits))
	builder.WriteString(strings.Repeat("1", zeros))
	for index := len(digits) - 1; index >= 0; index-- {
		builder.WriteByte(base58Alphabet[digits[index]])
	}
	return builder.String()
}

// Base58Decode decodes a base58 string produced by Base58Encode.
func Base58Decode(input string) ([]byte, error) {
	if len(input) == 0 {
		return []byte{}, nil
	}

	zeros := 0
	for zeros < len(input) && input[zeros] == '1' {
		zeros++
	}

	output := make([]int, 0, len(input))
	for index := zeros; index < len(input); index++ {
		value := strings.IndexByte(base58Alphabet, input[index])
		if value < 0 {
			return nil, ErrInvalidBase58Character
		}

		carry := value
		for outputIndex := 0; outputIndex < len(output); outputIndex++ {
			x := output[outputIndex]*58 + carry
			output[outputIndex] = x & 0xff
			carry = x >> 8
		}
		for carry > 0 {
			output = append(output, carry&0xff)
			carry >>= 8
		}
	}

	for index := 0; index < zeros; index++ {
		output = append(output, 0)
	}

	decoded := make([]byte, len(output))
	for index := range output {
		decoded[len(output)-1-index] = byte(output[index])
	}
	return decoded, nil
}
