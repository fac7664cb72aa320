package fkd

import (
	"reflect"
	"testing"
)

const listURL = "https://www.shippai.org/fkd/lis/ca_ALL.html"

const listPageHTML = `<html><body>
<ul class="list_all">
<li><a href="../cf/CZ0200703.html">タンク爆発事故</a></li>
<li><a href="../cf/CA1000001.html">橋梁の崩落</a></li>
<li><a href="../hyakusen/HA0000623.html">百選の事例</a></li>
</ul>
<ul><li><a href="../cf/CB0000000.html">別リストの事例</a></li></ul>
</body></html>`

func TestParseCaseList(t *testing.T) {
	refs, err := ParseCaseList([]byte(listPageHTML), listURL)
	if err != nil {
		t.Fatalf("ParseCaseList() error: %v", err)
	}
	want := []CaseRef{
		{CaseID: "CZ0200703", Title: "タンク爆発事故", URL: "https://www.shippai.org/fkd/cf/CZ0200703.html"},
		{CaseID: "CA1000001", Title: "橋梁の崩落", URL: "https://www.shippai.org/fkd/cf/CA1000001.html"},
	}
	if !reflect.DeepEqual(refs, want) {
		t.Errorf("ParseCaseList() = %v, want %v", refs, want)
	}
}

func TestParseCaseListNoList(t *testing.T) {
	refs, err := ParseCaseList([]byte(`<html><body><p>検索結果なし</p></body></html>`), listURL)
	if err != nil {
		t.Fatal(err)
	}
	if len(refs) != 0 {
		t.Errorf("refs = %v, want none", refs)
	}
}
