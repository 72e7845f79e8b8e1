// Package cv 提供基于 OpenCV 的模板匹配功能
//
// 匹配流程:
//   - 按给定顺序遍历缩放比例，逐一缩放模板
//   - 使用 TM_CCOEFF_NORMED 做归一化互相关匹配
//   - 第一个达到阈值的结果即被采用，后续比例不再计算
//
// 基本用法:
//
//	source, _ := cv.ReadImage("screen.png")
//	defer source.Close()
//	template, _ := cv.ReadImage("button.png")
//	defer template.Close()
//
//	m := cv.NewScaleStepMatching(template, source, 0.7, cv.DefaultScaleSteps)
//	region, err := m.FindBestResult()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if region != nil {
//	    fmt.Printf("找到区域: (%d, %d) - (%d, %d)\n", region.TX, region.TY, region.BX, region.BY)
//	}
package cv
