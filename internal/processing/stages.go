// Package processing - pipeline xử lý video mô phỏng: chạy qua các giai đoạn
// cố định, chấm điểm độ nhạy cảm và phát tiến độ realtime theo organization.
package processing

// Stage là một giai đoạn xử lý với mức tiến độ và mô tả hiển thị cho client
type Stage struct {
	Progress int
	Label    string
}

// AnalysisProgress là mức tiến độ tại đó classifier chạy
const AnalysisProgress = 50

// Stages trả về các giai đoạn xử lý theo đúng thứ tự chạy
func Stages() []Stage {
	return []Stage{
		{Progress: 25, Label: "Extracting video metadata..."},
		{Progress: 50, Label: "Analyzing content for sensitivity..."},
		{Progress: 75, Label: "Generating thumbnail..."},
		{Progress: 100, Label: "Processing complete"},
	}
}
