package port_scanner

// Config defines the configuration parameters used to be used
// by the end-user to redefine settings. Durations are in milliseconds.
type Config struct {
	StartPort   int `json:"start_port"`
	EndPort     int `json:"end_port"`
	Timeout     int `json:"timeout"`
	MinWorkers  int `json:"min_workers"`
	MaxWorkers  int `json:"max_workers"`
	IdleTimeout int `json:"idle_timeout"`
}

// topPorts holds the most commonly open TCP ports, scanned when no explicit
// range is configured.
var topPorts = []int{
	7, 9, 13, 21, 22, 23, 25, 26, 37, 53,
	79, 80, 81, 88, 106, 110, 111, 113, 119, 135,
	139, 143, 144, 179, 199, 389, 427, 443, 444, 445,
	465, 513, 514, 515, 543, 544, 548, 554, 587, 631,
	646, 873, 990, 993, 995, 1025, 1026, 1027, 1028, 1029,
	1110, 1433, 1521, 1720, 1723, 1755, 1900, 2000, 2001, 2049,
	2121, 2717, 3000, 3128, 3306, 3389, 3986, 4899, 5000, 5009,
	5051, 5060, 5101, 5190, 5357, 5432, 5631, 5666, 5800, 5900,
	6000, 6001, 6379, 6646, 7070, 8000, 8008, 8009, 8080, 8081,
	8443, 8888, 9000, 9090, 9100, 9200, 9999, 10000, 27017, 32768,
}
