/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package model

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// Ratio is a matched/total counter pair.
type Ratio struct {
	Matched int `json:"matched"`
	Total   int `json:"total"`
}

// Fraction returns Matched/Total. An empty counter has nothing left to match
// and counts as complete.
func (r Ratio) Fraction() float64 {
	if r.Total <= 0 {
		return 1
	}
	return float64(r.Matched) / float64(r.Total)
}

func (r Ratio) String() string {
	return strconv.Itoa(r.Matched) + "/" + strconv.Itoa(r.Total)
}

// MatchStatus holds the progress counters a mapping tool writes into the
// first line of a match file once work on it has started:
//
//	c:120/130 m:800/1000 f:300/310 ma:10/400
//
// Classes, methods, fields and method arguments, in that order.
type MatchStatus struct {
	Classes    Ratio `json:"c"`
	Methods    Ratio `json:"m"`
	Fields     Ratio `json:"f"`
	MethodArgs Ratio `json:"ma"`
}

var statusPattern = regexp.MustCompile(`c:(\d+)/(\d+) m:(\d+)/(\d+) f:(\d+)/(\d+) ma:(\d+)/(\d+)`)

// progressWeights weight classes, methods, fields and method arguments.
var progressWeights = [4]float64{2, 1, 1, 0.25}

// ParseStatus extracts the counters from a match file header line. It reports
// false when the line carries no status, which is the case for every freshly
// generated record.
func ParseStatus(line string) (MatchStatus, bool) {
	m := statusPattern.FindStringSubmatch(line)
	if m == nil {
		return MatchStatus{}, false
	}
	var n [8]int
	for i := range n {
		v, err := strconv.Atoi(m[i+1])
		if err != nil {
			return MatchStatus{}, false
		}
		n[i] = v
	}
	return MatchStatus{
		Classes:    Ratio{n[0], n[1]},
		Methods:    Ratio{n[2], n[3]},
		Fields:     Ratio{n[4], n[5]},
		MethodArgs: Ratio{n[6], n[7]},
	}, true
}

// Progress returns the weighted geometric mean of the four ratios, in [0, 1].
func (s MatchStatus) Progress() float64 {
	values := [4]float64{
		s.Classes.Fraction(),
		s.Methods.Fraction(),
		s.Fields.Fraction(),
		s.MethodArgs.Fraction(),
	}
	product, weightSum := 1.0, 0.0
	for i, v := range values {
		product *= math.Pow(v, progressWeights[i])
		weightSum += progressWeights[i]
	}
	return math.Pow(product, 1/weightSum)
}

// ProgressLabel formats Progress as a percentage rounded to two decimals,
// without trailing zeros: "87.5%", "100%".
func (s MatchStatus) ProgressLabel() string {
	pct := math.Round(s.Progress()*1e4) / 1e2
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// String renders the status in header line form.
func (s MatchStatus) String() string {
	return fmt.Sprintf("c:%s m:%s f:%s ma:%s", s.Classes, s.Methods, s.Fields, s.MethodArgs)
}
