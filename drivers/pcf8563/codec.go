package pcf8563

// decToBCD converts 0..99 to packed BCD.
func decToBCD(dec int) byte {
	return byte((dec/10)<<4 | dec%10)
}

// bcdToDec converts packed BCD to int. Callers mask off flag bits first.
func bcdToDec(bcd byte) int {
	return int(bcd>>4)*10 + int(bcd&0x0F)
}
